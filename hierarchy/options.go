package hierarchy

import "strings"

// Signature kinds recognized by the QIIME 2 SDK. A parameter with one of
// these kinds gets a single-letter prefix in its rendered option label
// (--i-table, --o-visualization, --p-sampling-depth, --m-metadata-file).
var signatureKinds = map[string]bool{
	"input":     true,
	"output":    true,
	"parameter": true,
	"metadata":  true,
	"artifact":  true,
}

var kindPrefixes = []struct {
	kind   string
	prefix string
}{
	{"input", "i"},
	{"output", "o"},
	{"parameter", "p"},
	{"metadata", "m"},
	{"artifact", "i"},
}

// SignatureKind resolves a parameter's declared kind.
//
// Resolution order: the signature_type field when present, else the type
// field when its lowercase value is a recognized kind, else "" (e.g.
// click-native params with type "text"/"path").
func SignatureKind(param Node) string {
	if sig, ok := param["signature_type"].(string); ok {
		return strings.ToLower(sig)
	}
	if typ, ok := param["type"].(string); ok && signatureKinds[strings.ToLower(typ)] {
		return strings.ToLower(typ)
	}
	return ""
}

// OptionPrefix returns the single-letter kind prefix for a parameter,
// or "" when its kind is unrecognized.
func OptionPrefix(param Node) string {
	kind := SignatureKind(param)
	if kind == "" {
		return ""
	}
	for _, kp := range kindPrefixes {
		if strings.HasPrefix(kind, kp.kind) {
			return kp.prefix
		}
	}
	return ""
}

// ParamIsRequired determines whether a parameter must be supplied.
//
// An explicit required boolean (used by builtin commands) wins. Otherwise a
// parameter is required when it has a recognized signature kind and no
// default key.
func ParamIsRequired(param Node) bool {
	if explicit, ok := param["required"].(bool); ok {
		return explicit
	}
	if SignatureKind(param) == "" {
		return false
	}
	_, hasDefault := param["default"]
	return !hasDefault
}

// FormatOptionLabel renders a parameter name as its CLI option label:
// dash-cased, kind-prefixed, double-dashed.
func FormatOptionLabel(prefix, name string) string {
	dashed := strings.ReplaceAll(name, "_", "-")
	if prefix != "" {
		return "--" + prefix + "-" + dashed
	}
	return "--" + dashed
}

// OptionLabelMatchesPrefix reports whether an option label matches the
// typed prefix. Besides the literal match, a prefix without the kind
// segment still matches (--table matches --i-table), so users need not
// know a parameter's kind to filter.
func OptionLabelMatchesPrefix(label, prefix string) bool {
	if prefix == "" {
		return true
	}
	if strings.HasPrefix(label, prefix) {
		return true
	}
	opt := strings.TrimLeft(label, "-")
	pref := strings.TrimLeft(prefix, "-")
	if len(opt) >= 2 && opt[1] == '-' && strings.ContainsRune("iopm", rune(opt[0])) {
		opt = opt[2:]
	}
	return strings.HasPrefix(opt, pref)
}

// NormalizeOptionToParamName converts an option token to its canonical
// parameter name: dashes stripped, any =value dropped, dash-cased to
// underscore, leading kind-prefix segment removed. Returns "" for tokens
// that are not long options.
func NormalizeOptionToParamName(token string) string {
	if !strings.HasPrefix(token, "--") {
		return ""
	}
	name := strings.TrimLeft(token, "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		name = name[:eq]
	}
	name = strings.ReplaceAll(name, "-", "_")
	if len(name) >= 2 && name[1] == '_' && strings.ContainsRune("iopm", rune(name[0])) {
		name = name[2:]
	}
	return name
}
