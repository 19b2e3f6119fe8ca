package hierarchy

// SignatureParam is one entry of an action's signature, paired with its
// resolved option prefix.
type SignatureParam struct {
	Name   string
	Prefix string
	Param  Node
}

// SignatureParams iterates the signature parameters of an action node.
//
// Accepts both the flat list form and the legacy mapping grouped under
// inputs/outputs/parameters/metadata. Malformed entries are skipped.
func SignatureParams(action Node) []SignatureParam {
	if action == nil {
		return nil
	}

	switch signature := action["signature"].(type) {
	case []any:
		return paramsFromList(signature)
	case map[string]any:
		var params []SignatureParam
		for _, group := range []string{"inputs", "outputs", "parameters", "metadata"} {
			list, ok := signature[group].([]any)
			if !ok {
				continue
			}
			params = append(params, paramsFromList(list)...)
		}
		return params
	default:
		return nil
	}
}

func paramsFromList(list []any) []SignatureParam {
	params := make([]SignatureParam, 0, len(list))
	for _, entry := range list {
		param, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, ok := param["name"].(string)
		if !ok || name == "" {
			continue
		}
		params = append(params, SignatureParam{
			Name:   name,
			Prefix: OptionPrefix(param),
			Param:  param,
		})
	}
	return params
}

// AllOptionLabels returns the rendered option labels of every signature
// parameter of an action. These are exactly the labels completion offers
// and the validator accepts.
func AllOptionLabels(action Node) []string {
	params := SignatureParams(action)
	labels := make([]string, 0, len(params))
	for _, p := range params {
		labels = append(labels, FormatOptionLabel(p.Prefix, p.Name))
	}
	return labels
}

// RequiredOptionLabels returns the rendered labels of required parameters.
func RequiredOptionLabels(action Node) []string {
	var labels []string
	for _, p := range SignatureParams(action) {
		if ParamIsRequired(p.Param) {
			labels = append(labels, FormatOptionLabel(p.Prefix, p.Name))
		}
	}
	return labels
}
