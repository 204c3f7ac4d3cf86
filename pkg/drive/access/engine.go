// Package access implements the pure access-control decision for drive
// files. Evaluate never touches the database or the network: callers load
// the file (with its grants) and receive a tagged verdict, which keeps the
// rules unit-testable without any HTTP or store scaffolding.
package access

import "github.com/marmos91/dittodrive/pkg/drive/models"

// DenyReason tags why access was refused.
type DenyReason int

const (
	// ReasonNone means the request was allowed.
	ReasonNone DenyReason = iota
	// ReasonNotFound masks soft-deleted files as nonexistent.
	ReasonNotFound
	// ReasonAuthRequired means the request had no principal.
	ReasonAuthRequired
	// ReasonPublicWrite means a write was attempted against a public file
	// without ownership or an explicit write grant.
	ReasonPublicWrite
	// ReasonDenied means the principal lacks the required level.
	ReasonDenied
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "allowed"
	case ReasonNotFound:
		return "not found"
	case ReasonAuthRequired:
		return "authentication required"
	case ReasonPublicWrite:
		return "write access denied for public files"
	case ReasonDenied:
		return "access denied"
	default:
		return "unknown"
	}
}

// Decision is the verdict of an access evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonNone}
}

func deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Evaluate decides whether the principal may access the file at the
// required level. The file's Permissions must be loaded.
//
// Rules are checked in order; the first match wins:
//
//  1. Trashed files are invisible to every path, including the owner's
//     read. Only the dedicated trash operations bypass this (they check
//     ownership directly instead of calling Evaluate).
//  2. Public files grant read to anyone, principal or not. This check runs
//     before the authentication check so anonymous viewing of public files
//     works.
//  3. Anything past here needs a principal.
//  4. The owner has full read+write without any grant.
//  5. An explicit grant at a satisfying level allows.
//  6. Public never implies write: an authenticated non-owner without a
//     write grant gets a distinct denial on public files.
//  7. Everything else is denied.
func Evaluate(file *models.File, principal *models.Principal, required models.AccessLevel) Decision {
	if file.Deleted {
		return deny(ReasonNotFound)
	}

	if file.Public && required == models.AccessRead {
		return allow()
	}

	if principal == nil {
		return deny(ReasonAuthRequired)
	}

	if principal.ID == file.OwnerID {
		return allow()
	}

	if grant, ok := file.GrantFor(principal.ID); ok {
		if grant.AccessLevel().Satisfies(required) {
			return allow()
		}
	}

	if file.Public && required == models.AccessWrite {
		return deny(ReasonPublicWrite)
	}

	return deny(ReasonDenied)
}
