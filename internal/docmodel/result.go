package docmodel

// Result types use the literal field names of the published JSON shape.
// These names are a compatibility contract; do not rename.

// Metadata describes one analysis run.
type Metadata struct {
	InputDocuments        []string `json:"input_documents"`
	Persona               string   `json:"persona"`
	JobToBeDone           string   `json:"job_to_be_done"`
	ProcessingTimestamp   string   `json:"processing_timestamp"`
	TotalSectionsAnalyzed int      `json:"total_sections_analyzed"`
	TopSectionsSelected   int      `json:"top_sections_selected"`

	// Partial is set only when the time budget truncated the run, so the
	// field set of a complete run is unchanged.
	Partial bool `json:"partial,omitempty"`
}

// ExtractedSection is one ranked section in the output.
type ExtractedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	HeadingLevel   string  `json:"heading_level"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SubsectionAnalysis is a refined excerpt derived from a ranked section.
type SubsectionAnalysis struct {
	Document             string `json:"document"`
	SectionTitle         string `json:"section_title"`
	RefinedText          string `json:"refined_text"`
	PageNumber           int    `json:"page_number"`
	ParentImportanceRank int    `json:"parent_importance_rank"`
}

// AnalysisResult is the full output of one run. It is built once and
// never mutated after construction.
type AnalysisResult struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}
