package render

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"br":     true,
	"cite":   true,
	"code":   true,
	"em":     true,
	"i":      true,
	"kbd":    true,
	"label":  true,
	"mark":   true,
	"q":      true,
	"s":      true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanProps are DOM properties written as boolean attributes.
var booleanProps = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"muted":    true,
	"multiple": true,
	"open":     true,
	"readOnly": true,
	"required": true,
	"selected": true,
}

// propAttrs maps DOM property names to the attribute they serialize as.
var propAttrs = map[string]string{
	"value":     "value",
	"className": "class",
	"htmlFor":   "for",
	"tabIndex":  "tabindex",
}
