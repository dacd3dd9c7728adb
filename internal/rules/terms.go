package rules

// BannedTerms invalidate a description outright when they occur anywhere in
// the text. Matched case-insensitively on word boundaries.
var BannedTerms = []string{
	// Vendor and product names
	"F5", "XC", "F5XC", "Distributed Cloud", "BIG-IP", "NGINX", "Volterra",
	"Anthropic", "Claude", "OpenAI", "GPT",

	// Generic protocol and API jargon
	"API", "REST", "RESTful", "Endpoint", "Request", "Response",
	"JSON", "XML", "HTTP", "HTTPS",

	// Marketing language
	"world-class", "market-leading", "cutting-edge", "next-generation",
	"state-of-the-art", "seamless", "robust", "powerful", "comprehensive",
	"innovative", "scalable", "flexible", "enterprise-grade", "best-in-class",
	"industry-leading", "mission-critical", "turnkey", "holistic",
	"simplifies", "streamlines", "empowers", "unparalleled",

	// Superlatives
	"best", "worst", "most", "least", "fastest", "slowest", "easiest",
	"simplest", "hardest", "greatest", "ultimate", "superior", "optimal",

	// Filler phrases
	"in order to", "able to", "helps to", "allows you to", "enables you to",
	"designed to", "used to", "intended to", "meant to", "serves to",
	"aims to", "seeks to", "provides the ability to",

	// Vague quantifiers
	"various", "multiple", "several", "many", "some", "certain",
	"appropriate", "relevant", "necessary", "required", "specific",
}

// BannedVerbStarts are the imperative verbs a description must not begin
// with (the noun-first rule). The validator matches them case-insensitively
// at the start of the text; the post-processor rewrites exact-case matches.
var BannedVerbStarts = []string{
	"Configure", "Manage", "Create", "Delete", "Update", "Get", "Set",
	"Enable", "Disable", "Add", "Remove", "Edit", "Modify", "Define",
	"Specify", "Select", "Use", "Apply", "View", "List", "Show",
	"Enter", "Input", "Provide", "Submit", "Save", "Load", "Read",
	"Write", "Execute", "Run", "Start", "Stop", "Restart",
}

// LeadingArticles extend the verb-first check: descriptions should not open
// with an article either.
var LeadingArticles = []string{"This", "The", "A", "An"}

// SelfReferential phrases describe the description instead of the subject.
// Their presence is a warning, not a hard failure.
var SelfReferential = []string{
	"this field", "this property", "this setting",
	"this option", "this parameter", "this value",
	"the field", "the property", "the setting",
	"specifies the", "defines the", "sets the",
	"contains the", "holds the", "stores the",
}
