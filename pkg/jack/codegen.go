package jack

import "fmt"

// binaryOpInstructions maps a binary operator symbol to the VM text it emits
// once both operands are already on the stack.
var binaryOpInstructions = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "call Math.multiply 2",
	"/": "call Math.divide 2",
	"&": "and",
	"|": "or",
	"<": "lt",
	">": "gt",
	"=": "eq",
}

// unaryOpInstructions maps a unary operator symbol to its VM instruction.
var unaryOpInstructions = map[string]string{
	"-": "neg",
	"~": "not",
}

// Generator walks a parsed Class and emits VM text lines. One Generator
// instance is used per class: the label counter is monotonically
// increasing across every subroutine of that class, and resets only when a
// fresh Generator is built for the next class.
type Generator struct {
	filename   string
	className  string
	classTable *SymbolTable
	subTable   *SymbolTable
	labelID    int
}

func NewGenerator(filename string, className string, classTable *SymbolTable) *Generator {
	return &Generator{
		filename:   filename,
		className:  className,
		classTable: classTable,
	}
}

// GenerateClass emits every subroutine of class in declaration order.
func (g *Generator) GenerateClass(class *Class) ([]string, *CompileError) {
	var lines []string

	for i := range class.Subroutines {
		sub := &class.Subroutines[i]
		subLines, err := g.generateSubroutine(sub)
		if err != nil {
			return nil, err
		}
		lines = append(lines, subLines...)
	}

	return lines, nil
}

func (g *Generator) generateSubroutine(sub *SubroutineDec) ([]string, *CompileError) {
	g.subTable = sub.Symbols

	var lines []string
	nLocals := g.subTable.Count(CategoryLocal)
	lines = append(lines, fmt.Sprintf("function %s.%s %d", g.className, sub.Name, nLocals))

	switch sub.Kind {
	case SubroutineConstructor:
		lines = append(lines,
			fmt.Sprintf("push constant %d", g.classTable.CountFields()),
			"call Memory.alloc 1",
			"pop pointer 0",
		)
	case SubroutineMethod:
		lines = append(lines, "push argument 0", "pop pointer 0")
	case SubroutineFunction:
		// No prologue.
	}

	body, err := g.generateStatements(sub.Body)
	if err != nil {
		return nil, err
	}
	lines = append(lines, body...)

	return lines, nil
}

func (g *Generator) generateStatements(stmts []Statement) ([]string, *CompileError) {
	var lines []string
	for _, stmt := range stmts {
		stmtLines, err := g.generateStatement(stmt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmtLines...)
	}
	return lines, nil
}

func (g *Generator) generateStatement(stmt Statement) ([]string, *CompileError) {
	switch s := stmt.(type) {
	case LetStatement:
		return g.generateLet(s)
	case IfStatement:
		return g.generateIf(s)
	case WhileStatement:
		return g.generateWhile(s)
	case DoStatement:
		return g.generateDo(s)
	case ReturnStatement:
		return g.generateReturn(s)
	default:
		return nil, newEmitError(g.filename, "unexpected statement node")
	}
}

func (g *Generator) generateLet(s LetStatement) ([]string, *CompileError) {
	if s.Index == nil {
		value, err := g.generateExpression(s.Value)
		if err != nil {
			return nil, err
		}

		pop, serr := g.subTable.GetPop(s.Name)
		if serr != nil {
			serr.Filename = g.filename
			return nil, serr
		}

		return append(value, pop), nil
	}

	push, serr := g.subTable.GetPush(s.Name)
	if serr != nil {
		serr.Filename = g.filename
		return nil, serr
	}

	index, err := g.generateExpression(s.Index)
	if err != nil {
		return nil, err
	}

	value, err := g.generateExpression(s.Value)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, push)
	lines = append(lines, index...)
	lines = append(lines, "add")
	lines = append(lines, value...)
	lines = append(lines, "pop temp 0", "pop pointer 1", "push temp 0", "pop that 0")

	return lines, nil
}

func (g *Generator) generateReturn(s ReturnStatement) ([]string, *CompileError) {
	var lines []string

	if s.Value == nil {
		lines = append(lines, "push constant 0")
	} else {
		value, err := g.generateExpression(s.Value)
		if err != nil {
			return nil, err
		}
		lines = append(lines, value...)
	}

	lines = append(lines, "return")
	return lines, nil
}

func (g *Generator) generateDo(s DoStatement) ([]string, *CompileError) {
	call, err := g.generateCall(s.Call)
	if err != nil {
		return nil, err
	}
	return append(call, "pop temp 0"), nil
}

func (g *Generator) generateWhile(s WhileStatement) ([]string, *CompileError) {
	id := g.labelID
	g.labelID++

	cond, err := g.generateExpression(s.Condition)
	if err != nil {
		return nil, err
	}
	body, err := g.generateStatements(s.Body)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("label WHILE_EXP%d", id))
	lines = append(lines, cond...)
	lines = append(lines, "not", fmt.Sprintf("if-goto WHILE_END%d", id))
	lines = append(lines, body...)
	lines = append(lines, fmt.Sprintf("goto WHILE_EXP%d", id))
	lines = append(lines, fmt.Sprintf("label WHILE_END%d", id))

	return lines, nil
}

func (g *Generator) generateIf(s IfStatement) ([]string, *CompileError) {
	id := g.labelID
	g.labelID++

	cond, err := g.generateExpression(s.Condition)
	if err != nil {
		return nil, err
	}
	thenLines, err := g.generateStatements(s.Then)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, cond...)
	lines = append(lines, fmt.Sprintf("if-goto IF_TRUE%d", id))
	lines = append(lines, fmt.Sprintf("goto IF_FALSE%d", id))
	lines = append(lines, fmt.Sprintf("label IF_TRUE%d", id))
	lines = append(lines, thenLines...)

	if s.Else == nil {
		lines = append(lines, fmt.Sprintf("label IF_FALSE%d", id))
		return lines, nil
	}

	elseLines, err := g.generateStatements(s.Else)
	if err != nil {
		return nil, err
	}

	lines = append(lines, fmt.Sprintf("goto IF_END%d", id))
	lines = append(lines, fmt.Sprintf("label IF_FALSE%d", id))
	lines = append(lines, elseLines...)
	lines = append(lines, fmt.Sprintf("label IF_END%d", id))

	return lines, nil
}

func (g *Generator) generateExpression(expr Expression) ([]string, *CompileError) {
	switch e := expr.(type) {
	case IntegerLiteral:
		return []string{fmt.Sprintf("push constant %s", e.Value)}, nil

	case StringLiteral:
		lines := []string{
			fmt.Sprintf("push constant %d", len(e.Value)),
			"call String.new 1",
		}
		for _, c := range e.Value {
			lines = append(lines, fmt.Sprintf("push constant %d", int(c)), "call String.appendChar 2")
		}
		return lines, nil

	case KeywordLiteral:
		switch e.Value {
		case "true":
			return []string{"push constant 0", "not"}, nil
		case "false", "null":
			return []string{"push constant 0"}, nil
		case "this":
			return []string{"push pointer 0"}, nil
		default:
			return nil, newEmitError(g.filename, "invalid keyword constant: "+e.Value)
		}

	case UnaryExpr:
		operand, err := g.generateExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		ins, ok := unaryOpInstructions[e.Operator]
		if !ok {
			return nil, newEmitError(g.filename, "invalid unary operator: "+e.Operator)
		}
		return append(operand, ins), nil

	case BinaryExpr:
		left, err := g.generateExpression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := g.generateExpression(e.Right)
		if err != nil {
			return nil, err
		}
		ins, ok := binaryOpInstructions[e.Operator]
		if !ok {
			return nil, newEmitError(g.filename, "invalid binary operator: "+e.Operator)
		}
		lines := append(left, right...)
		return append(lines, ins), nil

	case VarName:
		push, serr := g.subTable.GetPush(e.Name)
		if serr != nil {
			serr.Filename = g.filename
			return nil, serr
		}
		return []string{push}, nil

	case ArrayAccess:
		push, serr := g.subTable.GetPush(e.Name)
		if serr != nil {
			serr.Filename = g.filename
			return nil, serr
		}
		index, err := g.generateExpression(e.Index)
		if err != nil {
			return nil, err
		}

		lines := []string{push}
		lines = append(lines, index...)
		lines = append(lines, "add", "pop pointer 1", "push that 0")
		return lines, nil

	case SubroutineCall:
		return g.generateCall(e)

	default:
		return nil, newEmitError(g.filename, "unexpected expression node")
	}
}

// generateCall resolves the three call shapes by symbol-table lookup:
// an unqualified call is a local method call on the current receiver; a
// qualified call whose receiver resolves in the subroutine table is a
// method call on that object; otherwise it is a constructor/function call
// on the named class.
func (g *Generator) generateCall(call SubroutineCall) ([]string, *CompileError) {
	var lines []string
	var target string
	argCount := len(call.Args)

	switch {
	case call.Receiver == "":
		lines = append(lines, "push pointer 0")
		target = fmt.Sprintf("%s.%s", g.className, call.Name)
		argCount++

	case g.subTable.Contains(call.Receiver):
		sym, _ := g.subTable.Get(call.Receiver)
		push, serr := g.subTable.GetPush(call.Receiver)
		if serr != nil {
			serr.Filename = g.filename
			return nil, serr
		}
		lines = append(lines, push)
		target = fmt.Sprintf("%s.%s", sym.Type, call.Name)
		argCount++

	default:
		target = fmt.Sprintf("%s.%s", call.Receiver, call.Name)
	}

	for _, arg := range call.Args {
		argLines, err := g.generateExpression(arg)
		if err != nil {
			return nil, err
		}
		lines = append(lines, argLines...)
	}

	lines = append(lines, fmt.Sprintf("call %s %d", target, argCount))

	return lines, nil
}
