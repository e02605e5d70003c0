package parser

import (
	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/token"
)

func lowerFile(name string, root *Node) *ast.File {
	f := &ast.File{Name: name}
	for _, item := range root.rules("TopLevelItem") {
		child := item.Children[0]
		switch child.Rule {
		case "Import":
			f.Imports = append(f.Imports, lowerImport(child))
		case "Struct":
			f.Structs = append(f.Structs, lowerStruct(child))
		case "Function":
			f.Functions = append(f.Functions, lowerFunction(child))
		}
	}
	return f
}

func lowerBuiltinsFile(name string, root *Node) *ast.BuiltinsFile {
	bf := &ast.BuiltinsFile{Name: name}
	for _, sig := range root.rules("BuiltinFunctionSignature") {
		bf.Functions = append(bf.Functions, lowerFunctionSignature(sig))
	}
	return bf
}

func lowerImport(n *Node) *ast.Import {
	imp := &ast.Import{}
	if strTerm := n.term(token.STRING); strTerm != nil {
		imp.Pos = strTerm.Value.Pos
		imp.Source = strTerm.Value.String
	}
	for _, it := range n.rules("ImportItem") {
		imp.Items = append(imp.Items, lowerImportItem(it))
	}
	return imp
}

func lowerImportItem(n *Node) *ast.ImportItem {
	idents := n.terms(token.IDENT)
	it := &ast.ImportItem{}
	if len(idents) > 0 {
		it.Pos = idents[0].Value.Pos
		it.OriginalName = idents[0].Value.Raw
		it.ImportedName = idents[0].Value.Raw
	}
	if len(idents) > 1 {
		it.ImportedName = idents[1].Value.Raw
	}
	return it
}

func lowerStruct(n *Node) *ast.Struct {
	s := &ast.Struct{}
	if kw := n.term(token.STRUCT); kw != nil {
		s.Pos = kw.Value.Pos
	}
	if nameTerm := n.term(token.IDENT); nameTerm != nil {
		s.Name = nameTerm.Value.Raw
	}
	if tp := n.rule("TypeParams"); tp != nil {
		s.TypeParams = lowerTypeParamNames(tp)
	}
	for _, fd := range n.rules("FieldDecl") {
		s.Fields = append(s.Fields, lowerField(fd))
	}
	return s
}

func lowerField(n *Node) *ast.Field {
	f := &ast.Field{}
	if nameTerm := n.term(token.IDENT); nameTerm != nil {
		f.Pos = nameTerm.Value.Pos
		f.Name = nameTerm.Value.Raw
	}
	if ty := n.rule("Type"); ty != nil {
		f.Type = lowerType(ty)
	}
	return f
}

func lowerTypeParamNames(n *Node) []string {
	var names []string
	for _, id := range n.terms(token.IDENT) {
		names = append(names, id.Value.Raw)
	}
	return names
}

func lowerType(n *Node) *ast.Type {
	t := &ast.Type{}
	if nameTerm := n.term(token.IDENT); nameTerm != nil {
		t.Pos = nameTerm.Value.Pos
		t.Name = nameTerm.Value.Raw
	}
	if tp := n.rule("TypeParams"); tp != nil {
		for _, id := range tp.terms(token.IDENT) {
			t.Params = append(t.Params, &ast.Type{Pos: id.Value.Pos, Name: id.Value.Raw})
		}
	}
	return t
}

func lowerArg(n *Node) *ast.Arg {
	a := &ast.Arg{}
	if nameTerm := n.term(token.IDENT); nameTerm != nil {
		a.Pos = nameTerm.Value.Pos
		a.Name = nameTerm.Value.Raw
	}
	if ty := n.rule("Type"); ty != nil {
		a.Type = lowerType(ty)
	}
	return a
}

func lowerFunctionName(n *Node) (name, memberOfType string, pos token.Pos) {
	if mfn := n.rule("MemberFunctionName"); mfn != nil {
		idents := mfn.terms(token.IDENT)
		if len(idents) == 2 {
			return idents[1].Value.Raw, idents[0].Value.Raw, idents[0].Value.Pos
		}
	}
	if id := n.term(token.IDENT); id != nil {
		return id.Value.Raw, "", id.Value.Pos
	}
	return "", "", 0
}

func lowerFunction(n *Node) *ast.Function {
	fn := &ast.Function{}
	if kw := n.term(token.FN); kw != nil {
		fn.Pos = kw.Value.Pos
	}
	if fname := n.rule("FunctionName"); fname != nil {
		fn.Name, fn.MemberOfType, _ = lowerFunctionName(fname)
	}
	if tp := n.rule("TypeParams"); tp != nil {
		fn.TypeParams = lowerTypeParamNames(tp)
	}
	for _, a := range n.rules("ArgDecl") {
		fn.Args = append(fn.Args, lowerArg(a))
	}
	for _, ty := range n.rules("Type") {
		fn.ReturnTypes = append(fn.ReturnTypes, lowerType(ty))
	}
	if body := n.rule("Body"); body != nil {
		fn.Body = lowerBody(body)
	}
	return fn
}

// lowerFunctionSignature lowers a BuiltinFunctionSignature node, which has
// the same shape as Function minus the Body.
func lowerFunctionSignature(n *Node) *ast.Function {
	fn := &ast.Function{}
	if kw := n.term(token.FN); kw != nil {
		fn.Pos = kw.Value.Pos
	}
	if fname := n.rule("FunctionName"); fname != nil {
		fn.Name, fn.MemberOfType, _ = lowerFunctionName(fname)
	}
	if tp := n.rule("TypeParams"); tp != nil {
		fn.TypeParams = lowerTypeParamNames(tp)
	}
	for _, a := range n.rules("ArgDecl") {
		fn.Args = append(fn.Args, lowerArg(a))
	}
	for _, ty := range n.rules("Type") {
		fn.ReturnTypes = append(fn.ReturnTypes, lowerType(ty))
	}
	return fn
}

func lowerBody(n *Node) *ast.Body {
	b := &ast.Body{}
	for _, item := range n.rules("BodyItem") {
		b.Items = append(b.Items, lowerBodyItem(item))
	}
	return b
}

func lowerBodyItem(n *Node) ast.BodyItem {
	child := n.Children[0]
	if child.Rule == "" {
		switch child.Tok {
		case token.INT:
			return &ast.IntegerLiteral{Pos: child.Value.Pos, Value: child.Value.Int}
		case token.STRING:
			return &ast.StringLiteral{Pos: child.Value.Pos, Value: child.Value.String}
		case token.TRUE:
			return &ast.BooleanLiteral{Pos: child.Value.Pos, Value: true}
		case token.FALSE:
			return &ast.BooleanLiteral{Pos: child.Value.Pos, Value: false}
		case token.IDENT:
			// A bare identifier may refer to a function, a local, or a struct
			// type used as a first-class value; lang/loader resolves which
			// by filling in Identifier.Binding during cross-referencing.
			return &ast.Identifier{Pos: child.Value.Pos, Name: child.Value.Raw}
		}
		return &ast.Identifier{Pos: child.Value.Pos, Name: child.Value.Raw}
	}

	switch child.Rule {
	case "Branch":
		return lowerBranch(child)
	case "Loop":
		return lowerLoop(child)
	case "StructFieldQuery":
		return lowerStructFieldQuery(child)
	case "StructFieldUpdate":
		return lowerStructFieldUpdate(child)
	case "MemberFunctionName":
		return lowerMemberFunction(child)
	case "Operator":
		return lowerOperator(child)
	}
	return &ast.Identifier{}
}

func lowerBranch(n *Node) *ast.Branch {
	br := &ast.Branch{Condition: &ast.Body{}}
	if kw := n.term(token.IF); kw != nil {
		br.Pos = kw.Value.Pos
	}
	bodies := n.rules("Body")
	if len(bodies) > 0 {
		br.IfBody = lowerBody(bodies[0])
	} else {
		br.IfBody = &ast.Body{}
	}
	if len(bodies) > 1 {
		br.ElseBody = lowerBody(bodies[1])
	}
	return br
}

func lowerLoop(n *Node) *ast.Loop {
	lp := &ast.Loop{Condition: &ast.Body{}, Body: &ast.Body{}}
	if kw := n.term(token.WHILE); kw != nil {
		lp.Pos = kw.Value.Pos
	}
	if body := n.rule("Body"); body != nil {
		lp.Body = lowerBody(body)
	}
	return lp
}

func lowerStructFieldQuery(n *Node) *ast.StructFieldQuery {
	q := &ast.StructFieldQuery{}
	if s := n.term(token.STRING); s != nil {
		q.Pos = s.Value.Pos
		q.Field = s.Value.String
	}
	return q
}

func lowerStructFieldUpdate(n *Node) *ast.StructFieldUpdate {
	u := &ast.StructFieldUpdate{NewValueExpr: &ast.Body{}}
	if s := n.term(token.STRING); s != nil {
		u.Pos = s.Value.Pos
		u.Field = s.Value.String
	}
	return u
}

func lowerMemberFunction(n *Node) *ast.MemberFunction {
	mf := &ast.MemberFunction{}
	idents := n.terms(token.IDENT)
	if len(idents) == 2 {
		mf.Pos = idents[0].Value.Pos
		mf.Type = idents[0].Value.Raw
		mf.Func = idents[1].Value.Raw
	}
	return mf
}

func lowerOperator(n *Node) *ast.Operator {
	child := n.Children[0]
	return &ast.Operator{Pos: child.Value.Pos, Name: child.Tok.String()}
}
