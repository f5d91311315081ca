package xgrammar

// formatRegex maps a JSON Schema "format" value to its regex (in the
// dialect ebnf.ParseRegexFragment understands). These are the compatibility
// contract for string-typed schemas with a "format" keyword; see the
// External Interfaces section of the design document for the full list.
var formatRegexes = map[string]string{
	"email": `[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~.-]+@[a-zA-Z0-9](([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}`,

	"date": `[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])`,

	"time": `([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]{1,3})?(Z|[+-][01][0-9]:[0-5][0-9])`,

	"date-time": `[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])T([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]{1,3})?(Z|[+-][01][0-9]:[0-5][0-9])`,

	// Restricted ISO8601 duration: at least one designator after "P",
	// date designators before an optional "T" time part.
	"duration": `P([0-9]+W|([0-9]+Y([0-9]+M)?([0-9]+D)?|[0-9]+M([0-9]+D)?|[0-9]+D)(T([0-9]+H([0-9]+M)?([0-9]+S)?|[0-9]+M([0-9]+S)?|[0-9]+S))?|T([0-9]+H([0-9]+M)?([0-9]+S)?|[0-9]+M([0-9]+S)?|[0-9]+S))`,

	"ipv4": `(25[0-5]|2[0-4][0-9]|[01][0-9][0-9]|[0-9][0-9]|[0-9])(\.(25[0-5]|2[0-4][0-9]|[01][0-9][0-9]|[0-9][0-9]|[0-9])){3}`,

	"ipv6": ipv6Regex,

	"hostname": `([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)(\.([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?))*`,

	"uuid": `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,

	// RFC3986-restricted: scheme ":" hier-part with a conservative
	// character set for the remainder (no percent-decoding validation).
	"uri": `[a-zA-Z][a-zA-Z0-9+.-]*:[a-zA-Z0-9!#$%&'()*+,/:;=?@_~.\-\[\]]*`,

	"uri-reference": `([a-zA-Z][a-zA-Z0-9+.-]*:)?[a-zA-Z0-9!#$%&'()*+,/:;=?@_~.\-\[\]]*`,

	// RFC6570-restricted: literals plus "{" varname "}" expressions.
	"uri-template": `([a-zA-Z0-9!#$%&'()*+,/:;=?@_~.\-]|\{[a-zA-Z0-9_.,*:+#?/;]+\})*`,

	"json-pointer": `(\/([^~/]|~0|~1)*)*`,

	"relative-json-pointer": `[0-9]+(#|(\/([^~/]|~0|~1)*)*)`,
}

const ipv6Regex = `(` +
	`([0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}|` +
	`([0-9A-Fa-f]{1,4}:){1,7}:|` +
	`([0-9A-Fa-f]{1,4}:){1,6}:[0-9A-Fa-f]{1,4}|` +
	`([0-9A-Fa-f]{1,4}:){1,5}(:[0-9A-Fa-f]{1,4}){1,2}|` +
	`([0-9A-Fa-f]{1,4}:){1,4}(:[0-9A-Fa-f]{1,4}){1,3}|` +
	`([0-9A-Fa-f]{1,4}:){1,3}(:[0-9A-Fa-f]{1,4}){1,4}|` +
	`([0-9A-Fa-f]{1,4}:){1,2}(:[0-9A-Fa-f]{1,4}){1,5}|` +
	`[0-9A-Fa-f]{1,4}:((:[0-9A-Fa-f]{1,4}){1,6})|` +
	`:((:[0-9A-Fa-f]{1,4}){1,7}|:)` +
	`)`

// supportedFormats reports whether name is a recognized "format" value.
func supportedFormats() map[string]bool {
	m := make(map[string]bool, len(formatRegexes))
	for k := range formatRegexes {
		m[k] = true
	}
	return m
}
