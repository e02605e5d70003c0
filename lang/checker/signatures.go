package checker

// sig is a fixed, non-generic stack effect: Args are popped off the top of
// the stack in declaration order (the last Arg is the topmost value),
// Returns are pushed afterward in order.
type sig struct {
	Args    []string
	Returns []string
}

func fix(returns ...string) []string { return returns }

// operatorSigs lists every overload of every fixed operator token (§4.4).
// dup/drop/swap/over/rot/"." are polymorphic over any single type and are
// handled directly in checkOperator instead of through this table.
var operatorSigs = map[string][]sig{
	"+":   {{[]string{"int", "int"}, fix("int")}, {[]string{"str", "str"}, fix("str")}},
	"-":   {{[]string{"int", "int"}, fix("int")}},
	"*":   {{[]string{"int", "int"}, fix("int")}},
	"/":   {{[]string{"int", "int"}, fix("int")}},
	"%":   {{[]string{"int", "int"}, fix("int")}},
	"=":   {{[]string{"int", "int"}, fix("bool")}},
	"!=":  {{[]string{"int", "int"}, fix("bool")}},
	"<":   {{[]string{"int", "int"}, fix("bool")}},
	"<=":  {{[]string{"int", "int"}, fix("bool")}},
	">":   {{[]string{"int", "int"}, fix("bool")}},
	">=":  {{[]string{"int", "int"}, fix("bool")}},
	"and": {{[]string{"bool", "bool"}, fix("bool")}},
	"or":  {{[]string{"bool", "bool"}, fix("bool")}},
	"not": {{[]string{"bool"}, fix("bool")}},
}

// polymorphicOperators are the operators whose effect is the same regardless
// of the type(s) involved.
var polymorphicOperators = map[string]bool{
	"dup": true, "drop": true, "swap": true, "over": true, "rot": true, ".": true,
}
