// AngelaMos | 2026
// dto.go

package records

const (
	OpGetKPIs = "getKPIs"
	OpList    = "list"
	OpGet     = "get"

	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpSaveNotes = "saveNotes"
)

type ReadRequest struct {
	Operation string         `json:"operation" validate:"required"`
	Table     string         `json:"table,omitempty"`
	ID        string         `json:"id,omitempty"`
	Filters   map[string]any `json:"filters,omitempty"`
}

type WriteRequest struct {
	Operation string         `json:"operation" validate:"required"`
	Table     string         `json:"table,omitempty"`
	ID        string         `json:"id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`

	// saveNotes only: the pipeline client whose note set is replaced, and
	// the notes that should remain after the save.
	ClientID string      `json:"clientId,omitempty"`
	Notes    []NoteInput `json:"notes,omitempty"`
}

type NoteInput struct {
	ID        string `json:"id,omitempty"`
	Content   string `json:"content" validate:"required"`
	SortOrder int    `json:"sortOrder"`
}

type DataResponse struct {
	Data any `json:"data"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
