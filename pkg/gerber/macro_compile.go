package gerber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var varRefRe = regexp.MustCompile(`\$(\d+)`)

// instantiateMacro runs the macro compiler's instantiation algorithm
// (§4.5): given a template's raw body text and one concrete parameter
// list, it produces the list of concrete primitives. Pure: it mutates no
// shared state, only a local variable table.
func instantiateMacro(body string, params []float64) ([]MacroPrimitive, error) {
	vars := make(map[int]float64, len(params))
	for i, p := range params {
		vars[i+1] = p
	}

	body = strings.ReplaceAll(body, "\n", "")
	blocks := strings.Split(body, "*")

	var primitives []MacroPrimitive
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.HasPrefix(block, "%") || block[0] == '0' {
			continue
		}
		if block[0] == '$' {
			n, err := parseAssignment(block, vars)
			if err != nil {
				return nil, err
			}
			_ = n
			continue
		}
		prim, err := instantiatePrimitive(block, vars)
		if err != nil {
			return nil, err
		}
		primitives = append(primitives, prim)
	}
	return primitives, nil
}

// parseAssignment handles a "$<n>=<expr>" block, storing the result into
// vars[n] and returning n.
func parseAssignment(block string, vars map[int]float64) (int, error) {
	eq := strings.IndexByte(block, '=')
	if eq < 0 {
		return 0, fmt.Errorf("malformed macro variable assignment %q", block)
	}
	lhs := strings.TrimSpace(block[1:eq]) // without leading '$'
	n, err := strconv.Atoi(lhs)
	if err != nil {
		return 0, fmt.Errorf("malformed macro variable name in %q: %w", block, err)
	}
	exprText := substituteVars(block[eq+1:], vars)
	if strings.Contains(exprText, "$") {
		return 0, fmt.Errorf("unfulfilled macro parameter in assignment %q", block)
	}
	v, err := evalExpr(exprText)
	if err != nil {
		return 0, fmt.Errorf("macro assignment %q: %w", block, err)
	}
	vars[n] = v
	return n, nil
}

// substituteVars replaces every "$k" occurrence with the current decimal
// value of vars[k].
func substituteVars(s string, vars map[int]float64) string {
	return varRefRe.ReplaceAllStringFunc(s, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		if v, ok := vars[n]; ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		return m
	})
}

// instantiatePrimitive handles a primitive-instantiation block: substitute
// variables, split on ',', evaluate each trailing token, and construct the
// primitive named by the leading code.
func instantiatePrimitive(block string, vars map[int]float64) (MacroPrimitive, error) {
	substituted := substituteVars(block, vars)
	if strings.Contains(substituted, "$") {
		return nil, fmt.Errorf("unfulfilled macro parameter in %q", block)
	}
	tokens := strings.Split(substituted, ",")
	code := strings.TrimSpace(tokens[0])
	values := make([]float64, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		v, err := evalExpr(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("macro primitive %s parameter %q: %w", code, tok, err)
		}
		values = append(values, v)
	}
	return buildPrimitive(code, values)
}

func buildPrimitive(code string, v []float64) (MacroPrimitive, error) {
	switch code {
	case "1":
		if len(v) != 4 && len(v) != 5 {
			return nil, fmt.Errorf("circle primitive expects 4 or 5 parameters, got %d", len(v))
		}
		p := MacroCircle{Exposure: v[0], Diameter: v[1], X: v[2], Y: v[3]}
		if len(v) == 5 {
			p.Rotation = v[4]
		}
		return p, nil
	case "20":
		if len(v) != 6 && len(v) != 7 {
			return nil, fmt.Errorf("vector line primitive expects 6 or 7 parameters, got %d", len(v))
		}
		p := MacroVectorLine{Exposure: v[0], Width: v[1], X1: v[2], Y1: v[3], X2: v[4], Y2: v[5]}
		if len(v) == 7 {
			p.Rotation = v[6]
		}
		return p, nil
	case "21":
		if len(v) != 5 && len(v) != 6 {
			return nil, fmt.Errorf("center line primitive expects 5 or 6 parameters, got %d", len(v))
		}
		p := MacroCenterLine{Exposure: v[0], Width: v[1], Height: v[2], X: v[3], Y: v[4]}
		if len(v) == 6 {
			p.Rotation = v[5]
		}
		return p, nil
	case "4":
		if len(v) < 4 {
			return nil, fmt.Errorf("outline primitive expects at least 4 parameters, got %d", len(v))
		}
		exposure, verticesF, x, y := v[0], v[1], v[2], v[3]
		vertices := int(verticesF)
		trailing := v[4:]
		want := 2*vertices + 1
		if len(trailing) != want {
			return nil, fmt.Errorf("outline primitive with %d vertices expects %d trailing parameters, got %d", vertices, want, len(trailing))
		}
		p := MacroOutline{
			Exposure:    exposure,
			Vertices:    vertices,
			X:           x,
			Y:           y,
			Coordinates: append([]float64(nil), trailing[:want-1]...),
			Rotation:    trailing[want-1],
		}
		return p, nil
	case "5":
		if len(v) != 5 && len(v) != 6 {
			return nil, fmt.Errorf("regular polygon primitive expects 5 or 6 parameters, got %d", len(v))
		}
		p := MacroPolygon{Exposure: v[0], Vertices: int(v[1]), X: v[2], Y: v[3], Diameter: v[4]}
		if len(v) == 6 {
			p.Rotation = v[5]
		}
		return p, nil
	case "6":
		if len(v) != 8 && len(v) != 9 {
			return nil, fmt.Errorf("moire primitive expects 8 or 9 parameters, got %d", len(v))
		}
		p := MacroMoire{
			X: v[0], Y: v[1], OuterDiameter: v[2], RingThickness: v[3],
			Gap: v[4], NumRings: int(v[5]), CrosshairThickness: v[6], CrosshairLength: v[7],
		}
		if len(v) == 9 {
			p.Rotation = v[8]
		}
		return p, nil
	case "7":
		if len(v) != 5 && len(v) != 6 {
			return nil, fmt.Errorf("thermal primitive expects 5 or 6 parameters, got %d", len(v))
		}
		p := MacroThermal{X: v[0], Y: v[1], OuterDiameter: v[2], InnerDiameter: v[3], Gap: v[4]}
		if len(v) == 6 {
			p.Rotation = v[5]
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unrecognized macro primitive code %q", code)
	}
}
