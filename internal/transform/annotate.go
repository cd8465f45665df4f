package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/reflection"
)

// AnnotateReflection gives every class an id, records a snapshot of it in
// the store and tags the class and its members with decorators the runtime
// uses to find that snapshot again:
//
//   @__jymfony_reflect("<id>", <constructor index or void 0>)
//   class A {
//     @__jymfony_reflect("<id>", 0)
//     method() {}
//   }
//
// Constructors and static blocks are not tagged. Outer classes are
// processed before the classes nested inside them. Must run after
// NameAnonymous: a class without a name panics with ErrUnnamedClass.
func AnnotateReflection(store *reflection.Store, ids reflection.IDGenerator, filename string, namespace string) Pass {
	return Pass{Name: "reflection", Run: func(tree js_ast.AST) js_ast.AST {
		docblockAt := func(loc logger.Loc) string {
			comments := tree.LeadingComments(loc)
			for i := len(comments) - 1; i >= 0; i-- {
				if comments[i].IsDocblock() {
					return comments[i].Text
				}
			}
			return ""
		}

		// Exported classes also look in front of the "export" keyword
		exportDocblocks := make(map[*js_ast.Class]string)

		w := js_ast.Walker{
			EnterStmt: func(stmt *js_ast.Stmt) bool {
				switch s := stmt.Data.(type) {
				case *js_ast.SClass:
					if s.IsExport {
						exportDocblocks[&s.Class] = docblockAt(stmt.Loc)
					}
				case *js_ast.SExportDefault:
					if s.Value.Stmt != nil {
						if inner, ok := s.Value.Stmt.Data.(*js_ast.SClass); ok {
							exportDocblocks[&inner.Class] = docblockAt(stmt.Loc)
						}
					}
				}
				return true
			},

			EnterClass: func(class *js_ast.Class) {
				if class.Name == nil {
					panic(ErrUnnamedClass)
				}

				record := &reflection.Record{
					ID:        ids.NextID(),
					Name:      class.Name.Name,
					Filename:  filename,
					Namespace: namespace,
					Docblock:  docblockAt(class.Loc),
					Class:     reflection.ShapeOf(class, docblockAt),
				}
				if record.Docblock == "" {
					record.Docblock = exportDocblocks[class]
				}
				delete(exportDocblocks, class)

				id := js_ast.String(js_ast.NoLoc, record.ID.String())
				ctorIndex := js_ast.Undefined(js_ast.NoLoc)
				if record.Class.ConstructorIndex != -1 {
					ctorIndex = js_ast.Number(js_ast.NoLoc, float64(record.Class.ConstructorIndex))
				}
				class.Decorators = append(class.Decorators, reflectCall(id, ctorIndex))

				for i := range class.Properties {
					prop := &class.Properties[i]
					if prop.Kind == js_ast.PropertyClassStaticBlock || reflection.IsConstructor(*prop) {
						continue
					}
					index := js_ast.Number(js_ast.NoLoc, float64(i))
					prop.Decorators = append(prop.Decorators, reflectCall(id, index))
				}

				store.Register(record)
			},
		}

		tree.Stmts = w.VisitStmts(tree.Stmts)
		return tree
	}}
}

func reflectCall(id js_ast.Expr, index js_ast.Expr) js_ast.Expr {
	// Every call gets its own string node
	idCopy := js_ast.Expr{Loc: id.Loc, Data: &js_ast.EString{Value: id.Data.(*js_ast.EString).Value}}
	return js_ast.Call(js_ast.NoLoc, js_ast.Ident(js_ast.NoLoc, "__jymfony_reflect"), idCopy, index)
}
