package output

// TemplateListOutput is the JSON shape of `templates`.
type TemplateListOutput struct {
	Root      string   `json:"root"`
	Suffix    string   `json:"suffix"`
	Templates []string `json:"templates"`
}

// ScaffoldOutput is the JSON shape of `new`.
type ScaffoldOutput struct {
	RunID      string          `json:"run_id"`
	Root       string          `json:"root"`
	Rendered   int             `json:"rendered"`
	Skipped    int             `json:"skipped"`
	DurationMS int64           `json:"duration_ms"`
	Files      []FileOutcome   `json:"files"`
	Config     ProjectSettings `json:"config"`
}

// FileOutcome is one processed template file.
type FileOutcome struct {
	Subtree     string `json:"subtree"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// ProjectSettings echoes the configuration a project was generated from.
type ProjectSettings struct {
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Frontend string   `json:"frontend"`
	Backend  string   `json:"backend"`
	Tools    []string `json:"tools"`
}
