package jack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Class {
	t.Helper()
	toks, err := Lex("test.jack", Preprocess(src))
	require.Nil(t, err)

	stream := NewTokenStream("test.jack", toks)
	class, perr := NewParser("test.jack", stream).ParseClass()
	require.Nil(t, perr)
	return class
}

func TestParseClassHeaderAndFields(t *testing.T) {
	class := parse(t, `
		class Point {
			field int x, y;
			static int count;

			constructor Point new(int ax, int ay) {
				let x = ax;
				let y = ay;
				return this;
			}
		}
	`)

	assert.Equal(t, "Point", class.Name)
	require.Len(t, class.ClassVarDecs, 2)
	assert.Equal(t, ClassVarField, class.ClassVarDecs[0].Kind)
	assert.Equal(t, []string{"x", "y"}, class.ClassVarDecs[0].Names)
	assert.Equal(t, ClassVarStatic, class.ClassVarDecs[1].Kind)

	require.Len(t, class.Subroutines, 1)
	ctor := class.Subroutines[0]
	assert.Equal(t, SubroutineConstructor, ctor.Kind)
	assert.Equal(t, "new", ctor.Name)
	require.Len(t, ctor.Parameters, 2)
	assert.Equal(t, "ax", ctor.Parameters[0].Name)
}

func TestParseMethodGetsImplicitThisArgument(t *testing.T) {
	class := parse(t, `
		class Point {
			field int x;

			method int getX() {
				return x;
			}
		}
	`)

	method := class.Subroutines[0]
	sym, err := method.Symbols.Get("this")
	require.Nil(t, err)
	assert.Equal(t, CategoryArgument, sym.Category)
	assert.Equal(t, 0, sym.Slot)
}

func TestParseLetStatementArrayForm(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				var Array a;
				let a[1] = 2;
				return;
			}
		}
	`)

	body := class.Subroutines[0].Body
	require.Len(t, body, 2)

	let, ok := body[0].(LetStatement)
	require.True(t, ok)
	assert.Equal(t, "a", let.Name)
	assert.NotNil(t, let.Index)
	assert.IsType(t, IntegerLiteral{}, let.Value)
}

func TestParseExpressionFoldsLeftToRight(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				var int a;
				let a = 1 + 4 - 3;
				return;
			}
		}
	`)

	let := class.Subroutines[0].Body[0].(LetStatement)
	outer, ok := let.Value.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "-", outer.Operator)

	inner, ok := outer.Left.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", inner.Operator)
	assert.Equal(t, IntegerLiteral{Value: "1"}, inner.Left)
	assert.Equal(t, IntegerLiteral{Value: "4"}, inner.Right)
	assert.Equal(t, IntegerLiteral{Value: "3"}, outer.Right)
}

func TestParseIfElseStatement(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				if (true) {
					return;
				} else {
					return;
				}
			}
		}
	`)

	ifStmt := class.Subroutines[0].Body[0].(IfStatement)
	assert.Len(t, ifStmt.Then, 1)
	assert.Len(t, ifStmt.Else, 1)
}

func TestParseDoStatementCallShapes(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				do draw();
				do obj.draw();
				do Output.printInt(1);
				return;
			}
		}
	`)

	body := class.Subroutines[0].Body

	local := body[0].(DoStatement).Call
	assert.Equal(t, "", local.Receiver)
	assert.Equal(t, "draw", local.Name)

	qualified := body[1].(DoStatement).Call
	assert.Equal(t, "obj", qualified.Receiver)

	static := body[2].(DoStatement).Call
	assert.Equal(t, "Output", static.Receiver)
	assert.Equal(t, "printInt", static.Name)
	assert.Len(t, static.Args, 1)
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	toks, err := Lex("test.jack", Preprocess(`
		class Main {
			function void run() {
				return
			}
		}
	`))
	require.Nil(t, err)

	stream := NewTokenStream("test.jack", toks)
	_, perr := NewParser("test.jack", stream).ParseClass()
	require.NotNil(t, perr)
	assert.Equal(t, ParseError, perr.Category)
}
