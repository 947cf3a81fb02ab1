package routes

type propsKind int

const (
	propsNone propsKind = iota
	propsPassThrough
	propsExtract
)

// Binding maps a path parameter onto a page input property.
type Binding struct {
	Prop  string
	Param string
}

// Bind returns a Binding of param to prop.
func Bind(prop, param string) Binding {
	return Binding{Prop: prop, Param: param}
}

// PropsRule derives page input properties from path parameters.
// The zero value passes nothing.
type PropsRule struct {
	kind     propsKind
	bindings []Binding
}

// NoProps passes no properties to the page.
var NoProps = PropsRule{}

// PassThrough passes every path parameter under its own name.
var PassThrough = PropsRule{kind: propsPassThrough}

// Extract passes only the listed parameters, renamed per binding.
func Extract(bindings ...Binding) PropsRule {
	return PropsRule{kind: propsExtract, bindings: bindings}
}

// String names the rule for listings.
func (r PropsRule) String() string {
	switch r.kind {
	case propsPassThrough:
		return "params"
	case propsExtract:
		s := ""
		for i, b := range r.bindings {
			if i > 0 {
				s += ","
			}
			s += b.Prop + "<-" + b.Param
		}
		return "{" + s + "}"
	default:
		return "-"
	}
}

func (r PropsRule) apply(params map[string]string) map[string]string {
	switch r.kind {
	case propsPassThrough:
		props := make(map[string]string, len(params))
		for k, v := range params {
			props[k] = v
		}
		return props
	case propsExtract:
		props := make(map[string]string, len(r.bindings))
		for _, b := range r.bindings {
			if v, ok := params[b.Param]; ok {
				props[b.Prop] = v
			}
		}
		return props
	default:
		return nil
	}
}
