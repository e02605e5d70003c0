package machine

import "github.com/aaa-lang/aaa/lang/diag"

// callBuiltin dispatches a CallFunction instruction whose target has no
// compiled Funcode: every builtins.aaa signature other than substr/strlen,
// which lang/compiler already lowers straight to their dedicated opcode (see
// DESIGN.md). vec and map are monomorphized to element type int and to
// str-keyed, int-valued entries respectively — the stack checker's
// left-to-right unification has no way to infer an element type that isn't
// pinned by an argument, so a fully generic vec[T]/map[K,V] is left for a
// richer type checker than this one.
func (th *Thread) callBuiltin(name string) error {
	fn, ok := builtins[name]
	if !ok {
		return th.errf(diag.UnexpectedType, "no builtin named %q", name)
	}
	return fn(th)
}

var builtins = map[string]func(th *Thread) error{
	"vec": func(th *Thread) error {
		th.push(&VecValue{})
		return nil
	},
	"vec:push": func(th *Thread) error {
		x, err := th.popChecked()
		if err != nil {
			return err
		}
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		vec, ok := v.(*VecValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "vec:push: expected vec, got %s", v.Type())
		}
		vec.Elems = append(vec.Elems, x)
		th.push(vec)
		return nil
	},
	"vec:get": func(th *Thread) error {
		i, err := th.popChecked()
		if err != nil {
			return err
		}
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		vec, ok := v.(*VecValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "vec:get: expected vec, got %s", v.Type())
		}
		idx, ok := i.(IntValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "vec:get: expected int index, got %s", i.Type())
		}
		if idx < 0 || int(idx) >= len(vec.Elems) {
			return th.errf(diag.UnexpectedType, "vec:get: index %d out of range for a %d-element vec", idx, len(vec.Elems))
		}
		th.push(vec.Elems[idx])
		return nil
	},
	"vec:len": func(th *Thread) error {
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		vec, ok := v.(*VecValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "vec:len: expected vec, got %s", v.Type())
		}
		th.push(IntValue(len(vec.Elems)))
		return nil
	},

	"map": func(th *Thread) error {
		th.push(NewMapValue(0))
		return nil
	},
	"map:set": func(th *Thread) error {
		val, err := th.popChecked()
		if err != nil {
			return err
		}
		key, err := th.popChecked()
		if err != nil {
			return err
		}
		m, err := th.popChecked()
		if err != nil {
			return err
		}
		mv, ok := m.(*MapValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "map:set: expected map, got %s", m.Type())
		}
		mv.Set(key, val)
		th.push(mv)
		return nil
	},
	"map:get": func(th *Thread) error {
		key, err := th.popChecked()
		if err != nil {
			return err
		}
		m, err := th.popChecked()
		if err != nil {
			return err
		}
		mv, ok := m.(*MapValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "map:get: expected map, got %s", m.Type())
		}
		val, ok := mv.Get(key)
		if !ok {
			return th.errf(diag.UnexpectedType, "map:get: no entry for key %s", key.String())
		}
		th.push(val)
		return nil
	},
	"map:len": func(th *Thread) error {
		m, err := th.popChecked()
		if err != nil {
			return err
		}
		mv, ok := m.(*MapValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "map:len: expected map, got %s", m.Type())
		}
		th.push(IntValue(mv.Len()))
		return nil
	},
}
