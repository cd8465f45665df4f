package transform

import (
	"strings"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/reflection"
)

// Element kinds understood by "_apply_decs_2203_r". Static elements add
// decoratorKindStatic to their kind.
const (
	decoratorKindField     = 0
	decoratorKindAccessor  = 1
	decoratorKindMethod    = 2
	decoratorKindGetter    = 3
	decoratorKindSetter    = 4
	decoratorKindStatic    = 5
	decoratorKindParameter = 10
)

const applyDecoratorsHelper = "_apply_decs_2203_r"

// LowerDecorators rewrites decorated classes into calls to
// "_apply_decs_2203_r" following the 2022-03 decorators proposal. Auto
// accessors are lowered to a private backing field plus a getter and a
// setter whether they are decorated or not.
func LowerDecorators(temps *TempNames) Pass {
	return Pass{Name: "decorators", Run: func(tree js_ast.AST) js_ast.AST {
		var l *classLowering
		l = newClassLowering(temps, func(class *js_ast.Class) *classRewrite {
			return lowerClassDecorators(l, class)
		})
		return l.run(tree)
	}}
}

func methodFn(prop js_ast.Property) *js_ast.Fn {
	if prop.Value == nil || (!prop.IsMethod && prop.Kind != js_ast.PropertyGet && prop.Kind != js_ast.PropertySet) {
		return nil
	}
	if fn, ok := prop.Value.Data.(*js_ast.EFunction); ok {
		return &fn.Fn
	}
	return nil
}

func hasParameterDecorators(prop js_ast.Property) bool {
	if fn := methodFn(prop); fn != nil {
		for _, arg := range fn.Args {
			if len(arg.Decorators) > 0 {
				return true
			}
		}
	}
	return false
}

// Constructors cannot be decorated themselves, only their parameters.
func isDecoratedMember(prop js_ast.Property) bool {
	return (len(prop.Decorators) > 0 && !reflection.IsConstructor(prop)) || hasParameterDecorators(prop)
}

// "_Base" for most expressions. Dotted names keep their parts so the
// output stays readable: "__jymfony.JObject" becomes "__jymfony_JObject".
func baseTempName(expr js_ast.Expr) string {
	var parts []string
	for {
		switch e := expr.Data.(type) {
		case *js_ast.EIdentifier:
			parts = append([]string{e.Name}, parts...)
			name := strings.Join(parts, "_")
			if !strings.HasPrefix(name, "_") {
				name = "_" + name
			}
			return name

		case *js_ast.EDot:
			if e.OptionalChain == js_ast.OptionalChainNone {
				parts = append([]string{e.Name}, parts...)
				expr = e.Target
				continue
			}
		}
		return "_Base"
	}
}

// The name a member goes by in helper temporaries: "_init_<name>"
func memberTempName(prop js_ast.Property) string {
	if prop.IsComputed {
		return "computedKey"
	}
	name, ok := js_ast.StaticKeyName(prop.Key)
	if !ok {
		return "computedKey"
	}
	return sanitizeName(strings.TrimPrefix(name, "#"))
}

// The name passed to the helper. Private names lose their "#", computed
// keys pass the captured value and constructors pass "void 0".
func descriptorKey(prop js_ast.Property) js_ast.Expr {
	loc := prop.Key.Loc
	if reflection.IsConstructor(prop) {
		return js_ast.Undefined(loc)
	}
	switch k := prop.Key.Data.(type) {
	case *js_ast.EIdentifier:
		return js_ast.Ident(loc, k.Name)
	case *js_ast.EPrivateIdentifier:
		return js_ast.String(loc, strings.TrimPrefix(k.Name, "#"))
	case *js_ast.EString:
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: k.Value}}
	case *js_ast.ENumber:
		return js_ast.String(loc, js_ast.NumberToString(k.Value))
	case *js_ast.EBigInt:
		return js_ast.String(loc, k.Value)
	}
	return prop.Key
}

func copyKey(key js_ast.Expr) js_ast.Expr {
	if id, ok := key.Data.(*js_ast.EIdentifier); ok {
		return js_ast.Ident(key.Loc, id.Name)
	}
	return key
}

func captureDecorator(l *classLowering, rewrite *classRewrite, decorator js_ast.Expr) js_ast.Expr {
	name := l.temp("_dec")
	rewrite.before = append(rewrite.before, js_ast.Assign(js_ast.Ident(decorator.Loc, name), decorator))
	return js_ast.Ident(decorator.Loc, name)
}

// A single decorator is passed as is, several as an array
func decoratorList(loc logger.Loc, decorators []js_ast.Expr) js_ast.Expr {
	if len(decorators) == 1 {
		return decorators[0]
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: decorators}}
}

func array(loc logger.Loc, items ...js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}
}

func identList(loc logger.Loc, names []string) []js_ast.Expr {
	items := make([]js_ast.Expr, len(names))
	for i, name := range names {
		items[i] = js_ast.Ident(loc, name)
	}
	return items
}

// "fn(this)" or "fn(this, value)"
func initializerCall(loc logger.Loc, fn string, value *js_ast.Expr) *js_ast.Expr {
	args := []js_ast.Expr{js_ast.This(loc)}
	if value != nil {
		args = append(args, *value)
	}
	call := js_ast.Call(loc, js_ast.Ident(loc, fn), args...)
	return &call
}

func accessorProperty(kind js_ast.PropertyKind, key js_ast.Expr, isComputed bool, isStatic bool, args []js_ast.Arg, body []js_ast.Stmt) js_ast.Property {
	value := fnExpr(key.Loc, args, body)
	return js_ast.Property{
		Loc:        js_ast.NoLoc,
		Kind:       kind,
		Key:        key,
		Value:      &value,
		IsComputed: isComputed,
		IsStatic:   isStatic,
		IsMethod:   true,
	}
}

// "function () { return this.#name; }"
func privateGetterFn(loc logger.Loc, name string) js_ast.Expr {
	return fnExpr(loc, nil, []js_ast.Stmt{returnStmt(loc, thisPrivate(loc, name))})
}

// "function (value) { this.#name = value; }"
func privateSetterFn(loc logger.Loc, name string) js_ast.Expr {
	return fnExpr(loc, []js_ast.Arg{argNamed(loc, "value")}, []js_ast.Stmt{
		exprStmt(js_ast.Assign(thisPrivate(loc, name), js_ast.Ident(loc, "value"))),
	})
}

type memberDecorators struct {
	decorators []js_ast.Expr

	// Descriptors of decorated parameters
	params []js_ast.Expr
}

func lowerClassDecorators(l *classLowering, class *js_ast.Class) *classRewrite {
	hasMemberDecorators := false
	hasAccessors := false
	for _, prop := range class.Properties {
		hasMemberDecorators = hasMemberDecorators || isDecoratedMember(prop)
		hasAccessors = hasAccessors || prop.Kind == js_ast.PropertyAutoAccessor
	}
	needsHelper := len(class.Decorators) > 0 || hasMemberDecorators
	if !needsHelper && !hasAccessors {
		return nil
	}

	loc := class.Loc
	rewrite := &classRewrite{}

	// Temporaries are minted in the order their "var" lists them
	var initClass, classRef string
	if len(class.Decorators) > 0 {
		className := "Class"
		if class.Name != nil {
			className = class.Name.Name
		}
		initClass = l.temp("_initClass")
		classRef = l.temp("_" + className)
		if class.Name != nil {
			rebindClassName(class.Properties, class.Name.Name, classRef)
		}
	}

	classDecorators := make([]js_ast.Expr, 0, len(class.Decorators))
	for _, decorator := range class.Decorators {
		classDecorators = append(classDecorators, captureDecorator(l, rewrite, decorator))
	}
	class.Decorators = nil

	var base string
	if needsHelper && class.Extends != nil {
		base = l.temp(baseTempName(*class.Extends))
		extends := js_ast.Assign(js_ast.Ident(class.Extends.Loc, base), *class.Extends)
		class.Extends = &extends
	}

	// Evaluate decorators and keys in source order
	members := make([]memberDecorators, len(class.Properties))
	for i := range class.Properties {
		prop := &class.Properties[i]
		m := &members[i]
		if prop.Kind == js_ast.PropertyClassStaticBlock {
			continue
		}

		if !reflection.IsConstructor(*prop) {
			for _, decorator := range prop.Decorators {
				m.decorators = append(m.decorators, captureDecorator(l, rewrite, decorator))
			}
			prop.Decorators = nil
		}

		hasParams := hasParameterDecorators(*prop)
		if prop.IsComputed && (len(m.decorators) > 0 || hasParams || prop.Kind == js_ast.PropertyAutoAccessor) {
			prop.Key = l.capture(rewrite, "_computedKey", prop.Key)
		}
		if !hasParams {
			continue
		}

		fn := methodFn(*prop)
		kind := decoratorKindParameter
		if prop.IsStatic {
			kind += decoratorKindStatic
		}
		for j := range fn.Args {
			arg := &fn.Args[j]
			if len(arg.Decorators) == 0 {
				continue
			}
			var decorators []js_ast.Expr
			for _, decorator := range arg.Decorators {
				decorators = append(decorators, captureDecorator(l, rewrite, decorator))
			}
			arg.Decorators = nil

			argLoc := arg.Binding.Loc
			name := js_ast.Undefined(argLoc)
			if id, ok := arg.Binding.Data.(*js_ast.BIdentifier); ok {
				name = js_ast.String(argLoc, id.Name)
			}
			isRest := fn.HasRestArg && j == len(fn.Args)-1
			m.params = append(m.params, array(argLoc,
				decoratorList(argLoc, decorators),
				js_ast.Number(argLoc, float64(kind)),
				descriptorKey(*prop),
				js_ast.Number(argLoc, float64(j)),
				name,
				js_ast.Expr{Loc: argLoc, Data: &js_ast.EBoolean{Value: isRest}},
			))
		}
	}

	privateNames := make(map[string]bool)
	for _, prop := range class.Properties {
		if private, ok := prop.Key.Data.(*js_ast.EPrivateIdentifier); ok {
			privateNames[private.Name] = true
		}
	}
	backingName := func(base string) string {
		name := "#___private_" + base
		for i := 1; privateNames[name]; i++ {
			name = "#___private_" + base + "_" + js_ast.NumberToString(float64(i))
		}
		privateNames[name] = true
		return name
	}

	var descriptors []js_ast.Expr
	var initializers []string
	hasProto := false
	hasStatic := false
	props := make([]js_ast.Property, 0, len(class.Properties)+2)

	for i, prop := range class.Properties {
		m := members[i]
		isDecorated := len(m.decorators) > 0
		static := 0
		if prop.IsStatic {
			static = decoratorKindStatic
		}
		keyLoc := prop.Key.Loc
		tempName := memberTempName(prop)

		privateKey := ""
		if private, ok := prop.Key.Data.(*js_ast.EPrivateIdentifier); ok {
			privateKey = private.Name
		}

		markElement := func() {
			if prop.IsStatic {
				hasStatic = true
			} else {
				hasProto = true
			}
		}

		describe := func(kind int, extra ...js_ast.Expr) {
			items := []js_ast.Expr{
				decoratorList(keyLoc, m.decorators),
				js_ast.Number(keyLoc, float64(kind+static)),
				descriptorKey(prop),
			}
			descriptors = append(descriptors, array(keyLoc, append(items, extra...)...))
		}

		switch {
		case prop.Kind == js_ast.PropertyClassStaticBlock || !isDecorated && prop.Kind != js_ast.PropertyAutoAccessor:
			props = append(props, prop)

		case prop.Kind == js_ast.PropertyAutoAccessor:
			backing := backingName(tempName)
			initializer := prop.Initializer
			if isDecorated {
				markElement()
				init := l.temp("_init_" + tempName)
				initializers = append(initializers, init)
				initializer = initializerCall(keyLoc, init, prop.Initializer)
			}
			props = append(props, js_ast.Property{
				Loc:         prop.Loc,
				Key:         privateName(keyLoc, backing),
				Initializer: initializer,
				IsStatic:    prop.IsStatic,
			})

			getBody := []js_ast.Stmt{returnStmt(keyLoc, thisPrivate(keyLoc, backing))}
			setBody := []js_ast.Stmt{exprStmt(js_ast.Assign(thisPrivate(keyLoc, backing), js_ast.Ident(keyLoc, "v")))}
			if privateKey != "" && isDecorated {
				describe(decoratorKindAccessor, privateGetterFn(keyLoc, backing), privateSetterFn(keyLoc, backing))
				get := l.temp("_get_" + tempName)
				set := l.temp("_set_" + tempName)
				initializers = append(initializers, get, set)
				getBody = []js_ast.Stmt{returnStmt(keyLoc, js_ast.Call(keyLoc, js_ast.Ident(keyLoc, get), js_ast.This(keyLoc)))}
				setBody = []js_ast.Stmt{exprStmt(js_ast.Call(keyLoc, js_ast.Ident(keyLoc, set), js_ast.This(keyLoc), js_ast.Ident(keyLoc, "v")))}
			} else if isDecorated {
				describe(decoratorKindAccessor)
			}

			props = append(props,
				accessorProperty(js_ast.PropertyGet, copyKey(prop.Key), prop.IsComputed, prop.IsStatic, nil, getBody),
				accessorProperty(js_ast.PropertySet, copyKey(prop.Key), prop.IsComputed, prop.IsStatic, []js_ast.Arg{argNamed(keyLoc, "v")}, setBody))

		case prop.IsField():
			if privateKey != "" {
				describe(decoratorKindField, privateGetterFn(keyLoc, privateKey), privateSetterFn(keyLoc, privateKey))
			} else {
				describe(decoratorKindField)
			}
			init := l.temp("_init_" + tempName)
			initializers = append(initializers, init)
			prop.Initializer = initializerCall(keyLoc, init, prop.Initializer)
			props = append(props, prop)

		default:
			markElement()
			kind := decoratorKindMethod
			switch prop.Kind {
			case js_ast.PropertyGet:
				kind = decoratorKindGetter
			case js_ast.PropertySet:
				kind = decoratorKindSetter
			}

			if privateKey == "" {
				describe(kind)
				props = append(props, prop)
				break
			}

			// The helper receives the function itself and the private member
			// forwards to whatever it returns
			fn := prop.Value.Data.(*js_ast.EFunction)
			fn.Fn.Name = nil
			describe(kind, *prop.Value)
			call := l.temp("_call_" + tempName)
			initializers = append(initializers, call)
			callRef := js_ast.Ident(keyLoc, call)

			switch kind {
			case decoratorKindMethod:
				props = append(props, accessorProperty(js_ast.PropertyGet, prop.Key, false, prop.IsStatic, nil,
					[]js_ast.Stmt{returnStmt(keyLoc, callRef)}))
			case decoratorKindGetter:
				props = append(props, accessorProperty(js_ast.PropertyGet, prop.Key, false, prop.IsStatic, nil,
					[]js_ast.Stmt{returnStmt(keyLoc, js_ast.Call(keyLoc, callRef, js_ast.This(keyLoc)))}))
			case decoratorKindSetter:
				props = append(props, accessorProperty(js_ast.PropertySet, prop.Key, false, prop.IsStatic,
					[]js_ast.Arg{argNamed(keyLoc, "v")},
					[]js_ast.Stmt{exprStmt(js_ast.Call(keyLoc, callRef, js_ast.This(keyLoc), js_ast.Ident(keyLoc, "v")))}))
			}
		}

		descriptors = append(descriptors, m.params...)
	}

	var initProto, initStatic string
	if hasProto {
		initProto = l.temp("_initProto")
		initializers = append(initializers, initProto)
	}
	if hasStatic {
		initStatic = l.temp("_initStatic")
		initializers = append(initializers, initStatic)
	}

	if needsHelper {
		args := []js_ast.Expr{js_ast.This(loc), array(loc, descriptors...), array(loc, classDecorators...)}
		if base != "" {
			args = append(args, js_ast.Ident(loc, base))
		}
		apply := js_ast.Call(loc, js_ast.Ident(loc, applyDecoratorsHelper), args...)

		var pattern []js_ast.Property
		if len(initializers) > 0 {
			value := array(loc, identList(loc, initializers)...)
			pattern = append(pattern, js_ast.Property{Loc: js_ast.NoLoc, Key: js_ast.String(loc, "e"), Value: &value})
		}
		if classRef != "" {
			value := array(loc, identList(loc, []string{classRef, initClass})...)
			pattern = append(pattern, js_ast.Property{Loc: js_ast.NoLoc, Key: js_ast.String(loc, "c"), Value: &value})
		}
		if len(pattern) > 0 {
			apply = js_ast.Assign(js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: pattern}}, apply)
		}

		stmts := []js_ast.Stmt{exprStmt(apply)}
		if initStatic != "" {
			stmts = append(stmts, exprStmt(js_ast.Call(loc, js_ast.Ident(loc, initStatic), js_ast.This(loc))))
		}
		props = append([]js_ast.Property{staticBlock(stmts)}, props...)
	}

	if initProto != "" {
		start := 0
		if needsHelper {
			start = 1
		}
		props = placeInitProto(loc, props, start, class.Extends != nil, initProto)
	}

	if classRef != "" {
		props = append(props, staticBlock([]js_ast.Stmt{
			exprStmt(js_ast.Call(loc, js_ast.Ident(loc, initClass))),
		}))
		value := js_ast.Ident(loc, classRef)
		rewrite.value = &value
	}

	class.Properties = props
	return rewrite
}

// Code in the class body must see the class returned by the class
// decorators, not the inner binding. Computed keys run before the class
// exists and are left alone.
func rebindClassName(props []js_ast.Property, name string, ref string) {
	var shadows []bool
	shadowCount := 0
	push := func(shadowed bool) {
		shadows = append(shadows, shadowed)
		if shadowed {
			shadowCount++
		}
	}
	pop := func() {
		if shadows[len(shadows)-1] {
			shadowCount--
		}
		shadows = shadows[:len(shadows)-1]
	}

	w := js_ast.Walker{
		EnterClass: func(class *js_ast.Class) {
			push(class.Name != nil && class.Name.Name == name)
		},
		ExitClass: func(*js_ast.Class) { pop() },

		EnterScope: func(scope js_ast.Scope) {
			shadowed := declares(js_ast.DeclaredNames(*scope.Stmts), name)
			for _, arg := range scope.Args {
				shadowed = shadowed || declares(js_ast.BindingNames(arg.Binding), name)
			}
			push(shadowed)
		},
		ExitScope: func(js_ast.Scope) { pop() },

		EnterStmt: func(stmt *js_ast.Stmt) bool {
			if s, ok := stmt.Data.(*js_ast.SBlock); ok {
				push(declares(js_ast.DeclaredNames(s.Stmts), name))
			}
			return true
		},
		ExitStmt: func(stmt js_ast.Stmt) []js_ast.Stmt {
			if _, ok := stmt.Data.(*js_ast.SBlock); ok {
				pop()
			}
			return []js_ast.Stmt{stmt}
		},

		ExitExpr: func(expr js_ast.Expr) js_ast.Expr {
			if shadowCount == 0 && js_ast.IsIdentifierNamed(expr, name) {
				return js_ast.Ident(expr.Loc, ref)
			}
			return expr
		},
	}

	for i := range props {
		prop := &props[i]
		if prop.Kind == js_ast.PropertyClassStaticBlock {
			block := &prop.ClassStaticBlock.Stmts
			push(declares(js_ast.DeclaredNames(*block), name))
			*block = w.VisitStmts(*block)
			pop()
			continue
		}
		if prop.Value != nil {
			value := w.VisitExpr(*prop.Value)
			prop.Value = &value
		}
		if prop.Initializer != nil {
			value := w.VisitExpr(*prop.Initializer)
			prop.Initializer = &value
		}
	}
}

func staticBlock(stmts []js_ast.Stmt) js_ast.Property {
	return js_ast.Property{
		Loc:              js_ast.NoLoc,
		Kind:             js_ast.PropertyClassStaticBlock,
		ClassStaticBlock: &js_ast.ClassStaticBlock{Loc: js_ast.NoLoc, Stmts: stmts},
	}
}

// Instance initializers run before any field is initialized: "_initProto"
// is chained into the first instance field initializer, otherwise called
// right after "super()" in the constructor. A constructor is added when the
// class has none.
func placeInitProto(loc logger.Loc, props []js_ast.Property, start int, hasExtends bool, initProto string) []js_ast.Property {
	call := js_ast.Call(loc, js_ast.Ident(loc, initProto), js_ast.This(loc))

	for i := range props {
		prop := &props[i]
		if prop.IsField() && !prop.IsStatic && prop.Initializer != nil {
			chained := js_ast.JoinWithComma(call, *prop.Initializer)
			prop.Initializer = &chained
			return props
		}
	}

	if i, ok := constructorIndex(props); ok {
		fn := props[i].Value.Data.(*js_ast.EFunction)
		stmts := fn.Fn.Body.Stmts
		at := 0
		for j, stmt := range stmts {
			if js_ast.IsSuperCall(stmt) {
				at = j + 1
				break
			}
		}
		result := make([]js_ast.Stmt, 0, len(stmts)+1)
		result = append(result, stmts[:at]...)
		result = append(result, exprStmt(call))
		fn.Fn.Body.Stmts = append(result, stmts[at:]...)
		return props
	}

	var ctor js_ast.Property
	if hasExtends {
		ctor = forwardingConstructor(loc, exprStmt(call))
	} else {
		value := fnExpr(loc, nil, []js_ast.Stmt{exprStmt(call)})
		ctor = js_ast.Property{Loc: js_ast.NoLoc, Key: js_ast.String(loc, "constructor"), Value: &value, IsMethod: true}
	}

	result := make([]js_ast.Property, 0, len(props)+1)
	result = append(result, props[:start]...)
	result = append(result, ctor)
	return append(result, props[start:]...)
}

func constructorIndex(props []js_ast.Property) (int, bool) {
	for i, prop := range props {
		if reflection.IsConstructor(prop) {
			return i, true
		}
	}
	return 0, false
}
