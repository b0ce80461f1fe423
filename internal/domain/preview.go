package domain

// PreviewRecord is one file's prospective change, computed at preview time.
// NewValue is the exact value apply would leave in the field, so the preview
// a user confirms is byte-identical to the result on disk.
type PreviewRecord struct {
	Path         string `json:"path"`
	Filename     string `json:"filename"`
	Title        string `json:"title"`
	CurrentValue string `json:"current_value"`
	NewValue     string `json:"new_value"`
}
