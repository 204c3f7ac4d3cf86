package access

import (
	"testing"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

var (
	owner    = &models.Principal{ID: "owner-1", Email: "owner@example.com"}
	reader   = &models.Principal{ID: "reader-1", Email: "reader@example.com"}
	writer   = &models.Principal{ID: "writer-1", Email: "writer@example.com"}
	stranger = &models.Principal{ID: "stranger-1", Email: "stranger@example.com"}
)

func testFile(public, deleted bool) *models.File {
	return &models.File{
		ID:      "file-1",
		OwnerID: owner.ID,
		Name:    "report.pdf",
		Public:  public,
		Deleted: deleted,
		Permissions: []models.Permission{
			{FileID: "file-1", UserID: reader.ID, Level: string(models.AccessRead)},
			{FileID: "file-1", UserID: writer.ID, Level: string(models.AccessWrite)},
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		file        *models.File
		principal   *models.Principal
		required    models.AccessLevel
		wantAllowed bool
		wantReason  DenyReason
	}{
		{"owner reads own file", testFile(false, false), owner, models.AccessRead, true, ReasonNone},
		{"owner writes own file", testFile(false, false), owner, models.AccessWrite, true, ReasonNone},
		{"read grant allows read", testFile(false, false), reader, models.AccessRead, true, ReasonNone},
		{"read grant denies write", testFile(false, false), reader, models.AccessWrite, false, ReasonDenied},
		{"write grant allows read", testFile(false, false), writer, models.AccessRead, true, ReasonNone},
		{"write grant allows write", testFile(false, false), writer, models.AccessWrite, true, ReasonNone},
		{"stranger denied read", testFile(false, false), stranger, models.AccessRead, false, ReasonDenied},
		{"anonymous denied on private file", testFile(false, false), nil, models.AccessRead, false, ReasonAuthRequired},

		{"public file readable anonymously", testFile(true, false), nil, models.AccessRead, true, ReasonNone},
		{"public file readable by stranger", testFile(true, false), stranger, models.AccessRead, true, ReasonNone},
		{"public file not writable by stranger", testFile(true, false), stranger, models.AccessWrite, false, ReasonPublicWrite},
		{"public file not writable anonymously", testFile(true, false), nil, models.AccessWrite, false, ReasonAuthRequired},
		{"public file writable by owner", testFile(true, false), owner, models.AccessWrite, true, ReasonNone},
		{"public file writable via write grant", testFile(true, false), writer, models.AccessWrite, true, ReasonNone},

		{"trashed file invisible to owner", testFile(false, true), owner, models.AccessRead, false, ReasonNotFound},
		{"trashed file invisible to grant holder", testFile(false, true), writer, models.AccessWrite, false, ReasonNotFound},
		{"trashed public file invisible anonymously", testFile(true, true), nil, models.AccessRead, false, ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.file, tt.principal, tt.required)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Evaluate() allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Evaluate() reason = %v, want %v", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateRuleOrdering(t *testing.T) {
	// The public+read short circuit must win over the authentication
	// check, but the deleted check must win over everything.
	f := testFile(true, false)
	if d := Evaluate(f, nil, models.AccessRead); !d.Allowed {
		t.Fatalf("public read should not require a principal, got %v", d.Reason)
	}

	f.Deleted = true
	if d := Evaluate(f, nil, models.AccessRead); d.Reason != ReasonNotFound {
		t.Fatalf("deleted check must precede public check, got %v", d.Reason)
	}
}
