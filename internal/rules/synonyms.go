package rules

// SynonymPair rewrites one banned or jargon-heavy phrase to an accepted one.
type SynonymPair struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Synonyms are applied in order, each case-insensitively and globally, before
// validation. No replacement contains any pattern from this table, so a
// second pass is a no-op.
var Synonyms = []SynonymPair{
	// Technical jargon
	{Pattern: "API endpoint", Replacement: "service interface"},
	{Pattern: "REST API", Replacement: "web service"},
	{Pattern: "JSON object", Replacement: "data structure"},
	{Pattern: "HTTP request", Replacement: "service call"},
	{Pattern: "HTTP response", Replacement: "service response"},

	// Marketing to technical
	{Pattern: "seamless integration", Replacement: "compatible connection"},
	{Pattern: "robust solution", Replacement: "reliable system"},
	{Pattern: "powerful feature", Replacement: "capability"},
	{Pattern: "comprehensive suite", Replacement: "tool set"},
	{Pattern: "scalable architecture", Replacement: "distributed design"},
}

// NounPhraseTransforms map a leading verb to its noun-first replacement.
// Every replacement is chosen so the rewritten text cannot start with a
// banned verb again.
var NounPhraseTransforms = map[string]string{
	"Configure": "Configuration for",
	"Manage":    "Management of",
	"Enable":    "Control to enable",
	"Disable":   "Control to disable",
	"Create":    "Creation of",
	"Delete":    "Deletion of",
	"Update":    "Updates to",
}

// IncompleteEndings mark text that trails off mid-sentence. Compared as
// lowercase suffixes, the leading space standing in for the word boundary.
var IncompleteEndings = []string{
	" and", " or", " but", " with", " for", " to",
	" the", " a", " an", " in", " on", " at",
}
