// Package netlistio decodes the JSON netlist wire format into the
// internal/ir graph the foreign-interface stage walks. This on-ramp isn't
// part of the analysis proper — it exists so cmd/fie has something
// concrete to read, standing in for the upstream elaboration/scoping/
// scheduling passes a real pipeline would already have run.
package netlistio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/foreignif/vfie/internal/ir"
)

// wireNetlist is the on-disk shape: every node that can be referenced
// from elsewhere carries a string `id`, resolved into a pointer graph by
// Decode. IDs are only unique within one netlist document.
type wireNetlist struct {
	Modules []wireModule `json:"modules"`
}

type wireModule struct {
	Name        string         `json:"name"`
	Kwd         string         `json:"kwd"`
	ForeignName string         `json:"foreignName"`
	Vars        []wireVar      `json:"vars"`
	Instances   []wireInstance `json:"instances"`
	CFuncs      []wireCFunc    `json:"cfuncs"`
	Actives     []wireActive   `json:"actives"`
}

type wireVar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PrettyName  string `json:"prettyName"`
	DType       string `json:"dtype"`
	Dir         string `json:"dir"` // "input", "output", "inout", ""
	IsPrimaryIO bool   `json:"primaryIO"`
}

type wireInstance struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ModName string `json:"modName"`
}

type wireCFunc struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Body         []wireStmt      `json:"body"`
	SkipDecl     bool            `json:"skipDecl"`
	IsForeignFFI bool            `json:"isForeignFFI"`
	DontCombine  bool            `json:"dontCombine"`
	IsStatic     bool            `json:"isStatic"`
	ArgTypes     string          `json:"argTypes"`
	SymProlog    bool            `json:"symProlog"`
}

type wireSenItem struct {
	Edge string `json:"edge"` // "any", "pos", "neg", "both"
	Var  string `json:"var"`
}

type wireSenTree struct {
	Items      []wireSenItem `json:"items"`
	HasInitial bool          `json:"hasInitial"`
	HasSettle  bool          `json:"hasSettle"`
}

type wireActive struct {
	Sensesp *wireSenTree `json:"sensesp"`
	Stmts   []wireStmt   `json:"stmts"`
}

// wireStmt and wireExpr are decoded generically (via a `kind` discriminator)
// rather than into Go's union types, since JSON has no sum types of its
// own.
type wireStmt struct {
	Kind string `json:"kind"`

	// assign / assignpost
	Lhs *wireExpr `json:"lhs,omitempty"`
	Rhs *wireExpr `json:"rhs,omitempty"`

	// ccall
	Func     string `json:"func,omitempty"`
	ArgTypes string `json:"argTypes,omitempty"`

	// text
	Literal string `json:"literal,omitempty"`

	// block
	Stmts []wireStmt `json:"stmts,omitempty"`

	// foreigneval
	Instance      string            `json:"instance,omitempty"`
	Name          string            `json:"name,omitempty"`
	Unconditional bool              `json:"unconditional,omitempty"`
	Reads         []wireForeignPort `json:"reads,omitempty"`
	Writes        []wireForeignPort `json:"writes,omitempty"`
	Depends       []string          `json:"depends,omitempty"`
}

type wireForeignPort struct {
	Name  string    `json:"name"`
	DType string    `json:"dtype"`
	Expr  *wireExpr `json:"expr"`
}

type wireExpr struct {
	Kind string `json:"kind"`

	// varref
	Var    string `json:"var,omitempty"`
	Lvalue bool   `json:"lvalue,omitempty"`

	// binary / unary
	Op      string    `json:"op,omitempty"`
	Lhs     *wireExpr `json:"lhs,omitempty"`
	Rhs     *wireExpr `json:"rhs,omitempty"`
	Operand *wireExpr `json:"operand,omitempty"`

	// literal
	Value string `json:"value,omitempty"`
}

// decodeState holds the ID -> pointer maps built while resolving one
// netlist document, so a CFunc body decoded before a later CFunc
// declaration can still reference it.
type decodeState struct {
	vars      map[string]*ir.Var
	instances map[string]*ir.ForeignInstance
	funcs     map[string]*ir.CFunc
}

// Decode reads a JSON netlist document from r and resolves it into an
// ir.Netlist. A reference to an unknown id, or an unrecognized stmt/expr
// kind, is a decode error — this is the wire format's own validation, not
// a structural IR violation the stage itself would raise.
func Decode(r io.Reader) (*ir.Netlist, error) {
	var wire wireNetlist
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode netlist json: %w", err)
	}

	netlist := &ir.Netlist{}
	for _, wm := range wire.Modules {
		mod, err := decodeModule(wm)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", wm.Name, err)
		}
		netlist.Modules = append(netlist.Modules, mod)
	}
	return netlist, nil
}

func decodeModule(wm wireModule) (*ir.Module, error) {
	st := &decodeState{
		vars:      make(map[string]*ir.Var),
		instances: make(map[string]*ir.ForeignInstance),
		funcs:     make(map[string]*ir.CFunc),
	}

	scope := &ir.Scope{}

	for _, wv := range wm.Vars {
		v := &ir.Var{
			Name:        wv.Name,
			PrettyName:  wv.PrettyName,
			DType:       &ir.DType{Name: wv.DType},
			Dir:         decodeDirection(wv.Dir),
			IsPrimaryIO: wv.IsPrimaryIO,
		}
		st.vars[wv.ID] = v
		scope.Vars = append(scope.Vars, v)
		scope.VarScopes = append(scope.VarScopes, &ir.VarScope{Varp: v})
	}

	for _, wi := range wm.Instances {
		inst := &ir.ForeignInstance{Name: wi.Name, ModName: wi.ModName}
		st.instances[wi.ID] = inst
		scope.Instances = append(scope.Instances, inst)
	}

	// CFuncs are created empty first so a body (of this or another
	// CFunc) may reference any of them regardless of declaration order,
	// then filled in a second pass.
	for _, wf := range wm.CFuncs {
		f := &ir.CFunc{
			Name:         wf.Name,
			SkipDecl:     wf.SkipDecl,
			IsForeignFFI: wf.IsForeignFFI,
			DontCombine:  wf.DontCombine,
			IsStatic:     wf.IsStatic,
			ArgTypes:     wf.ArgTypes,
			SymProlog:    wf.SymProlog,
		}
		st.funcs[wf.ID] = f
		scope.CFuncs = append(scope.CFuncs, f)
	}
	for _, wf := range wm.CFuncs {
		body, err := st.decodeStmts(wf.Body)
		if err != nil {
			return nil, fmt.Errorf("cfunc %q: %w", wf.Name, err)
		}
		st.funcs[wf.ID].Body = body
	}

	for _, wa := range wm.Actives {
		stmts, err := st.decodeStmts(wa.Stmts)
		if err != nil {
			return nil, fmt.Errorf("active: %w", err)
		}
		sens, err := st.decodeSenTree(wa.Sensesp)
		if err != nil {
			return nil, fmt.Errorf("active: %w", err)
		}
		scope.Actives = append(scope.Actives, &ir.Active{
			Sensesp: sens,
			Stmts:   stmts,
		})
	}

	return &ir.Module{
		Name:        wm.Name,
		Kwd:         ir.Kwd(wm.Kwd),
		ForeignName: wm.ForeignName,
		Top:         &ir.TopScope{Scope: scope},
	}, nil
}

func decodeDirection(s string) ir.Direction {
	switch s {
	case "input":
		return ir.DirInput
	case "output":
		return ir.DirOutput
	case "inout":
		return ir.DirInout
	default:
		return ir.DirNone
	}
}

func (st *decodeState) decodeSenTree(w *wireSenTree) (*ir.SenTree, error) {
	if w == nil {
		return nil, nil
	}
	items := make([]ir.SenItem, 0, len(w.Items))
	for _, wi := range w.Items {
		v, ok := st.vars[wi.Var]
		if !ok {
			return nil, fmt.Errorf("sensitivity item references unknown var id %q", wi.Var)
		}
		items = append(items, ir.SenItem{Edge: decodeEdge(wi.Edge), Varp: v})
	}
	return &ir.SenTree{Items: items, HasInitial: w.HasInitial, HasSettle: w.HasSettle}, nil
}

func decodeEdge(s string) ir.EdgeKind {
	switch s {
	case "pos":
		return ir.EdgePos
	case "neg":
		return ir.EdgeNeg
	case "both":
		return ir.EdgeBoth
	default:
		return ir.EdgeAny
	}
}

func (st *decodeState) decodeStmts(wstmts []wireStmt) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, 0, len(wstmts))
	for _, ws := range wstmts {
		s, err := st.decodeStmt(ws)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (st *decodeState) decodeStmt(ws wireStmt) (ir.Stmt, error) {
	switch ws.Kind {
	case "assign":
		lhs, err := st.decodeExpr(ws.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := st.decodeExpr(ws.Rhs)
		if err != nil {
			return nil, err
		}
		return &ir.Assign{Lhs: lhs, Rhs: rhs}, nil

	case "assignpost":
		lhs, err := st.decodeExpr(ws.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := st.decodeExpr(ws.Rhs)
		if err != nil {
			return nil, err
		}
		return &ir.AssignPost{Lhs: lhs, Rhs: rhs}, nil

	case "ccall":
		f, ok := st.funcs[ws.Func]
		if !ok {
			return nil, fmt.Errorf("ccall references unknown func id %q", ws.Func)
		}
		return &ir.CCall{Func: f, ArgTypes: ws.ArgTypes}, nil

	case "text":
		return &ir.Text{Literal: ws.Literal}, nil

	case "block":
		stmts, err := st.decodeStmts(ws.Stmts)
		if err != nil {
			return nil, err
		}
		return &ir.Block{Stmts: stmts}, nil

	case "foreigneval":
		inst, ok := st.instances[ws.Instance]
		if !ok {
			return nil, fmt.Errorf("foreigneval references unknown instance id %q", ws.Instance)
		}
		fe := &ir.ForeignEval{
			Instance:      inst,
			Name:          ws.Name,
			Unconditional: ws.Unconditional,
		}
		for _, wr := range ws.Reads {
			dst, err := st.decodeExpr(wr.Expr)
			if err != nil {
				return nil, err
			}
			fe.Reads = append(fe.Reads, &ir.ForeignRead{Name: wr.Name, DType: &ir.DType{Name: wr.DType}, Dst: dst})
		}
		for _, ww := range ws.Writes {
			src, err := st.decodeExpr(ww.Expr)
			if err != nil {
				return nil, err
			}
			fe.Writes = append(fe.Writes, &ir.ForeignWrite{Name: ww.Name, DType: &ir.DType{Name: ww.DType}, Src: src})
		}
		for _, d := range ws.Depends {
			fe.Depends = append(fe.Depends, &ir.ForeignDepend{Name: d})
		}
		return fe, nil

	default:
		return nil, fmt.Errorf("unrecognized statement kind %q", ws.Kind)
	}
}

func (st *decodeState) decodeExpr(we *wireExpr) (ir.Expr, error) {
	if we == nil {
		return nil, fmt.Errorf("missing expression")
	}
	switch we.Kind {
	case "varref":
		v, ok := st.vars[we.Var]
		if !ok {
			return nil, fmt.Errorf("varref references unknown var id %q", we.Var)
		}
		return &ir.VarRef{Varp: v, Lvalue: we.Lvalue}, nil

	case "binary":
		lhs, err := st.decodeExpr(we.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := st.decodeExpr(we.Rhs)
		if err != nil {
			return nil, err
		}
		return &ir.BinaryExpr{Op: we.Op, Lhs: lhs, Rhs: rhs}, nil

	case "unary":
		operand, err := st.decodeExpr(we.Operand)
		if err != nil {
			return nil, err
		}
		return &ir.UnaryExpr{Op: we.Op, Operand: operand}, nil

	case "literal":
		return &ir.Literal{Value: we.Value}, nil

	default:
		return nil, fmt.Errorf("unrecognized expression kind %q", we.Kind)
	}
}
