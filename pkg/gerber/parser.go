package gerber

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Parser owns all mutable parsing state: modal state, the aperture table
// and template registries, the macro registry, and the object-builder
// stack (§3 "Lifecycle", §5). A Parser is single-use: construct one per
// input stream with NewParser.
type Parser struct {
	state     *modalState
	apertures *apertureTable
	templates *templateRegistry
	macros    *macroRegistry
	builder   *builder

	// blockIdents mirrors the builder's frameBlock nesting, remembering
	// the ident each open %AB<ident>*% is waiting to register at close.
	blockIdents []string

	sawM02 bool
	logger *slog.Logger
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger attaches a logger for Debug-level statement tracing
// (SPEC_FULL.md §10.1). The core never logs without one explicitly
// supplied; a nil logger keeps the default, which discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser constructs a Parser ready to process one Gerber stream.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		state:     newModalState(),
		apertures: newApertureTable(),
		templates: newTemplateRegistry(),
		macros:    newMacroRegistry(),
		builder:   newBuilder(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse consumes the entire Gerber statement stream from r and returns the
// ordered, fully resolved object stream (§6.2). Parsing halts at the first
// error (§7); the returned error is always a *ParseError.
func (p *Parser) Parse(r io.Reader) ([]GraphicalObject, error) {
	lx := newLexer(r)
	table := dispatchTable()

	for {
		stmt, err := lx.next()
		if err != nil {
			return nil, newParseError(lx.lineNum, LexicalError, "failed to read input", err)
		}
		if stmt == nil {
			break
		}
		p.logger.Debug("statement", "line", stmt.line, "text", stmt.text)

		code, ok := classify(stmt.text)
		if !ok {
			return nil, newParseError(stmt.line, LexicalError, fmt.Sprintf("unrecognized statement: %q", stmt.text), nil)
		}
		handler, ok := table[code]
		if !ok {
			return nil, newParseError(stmt.line, LexicalError, fmt.Sprintf("unrecognized statement: %q", stmt.text), nil)
		}
		if err := handler(p, stmt); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return nil, pe
			}
			return nil, newParseError(stmt.line, BadOperation, err.Error(), err)
		}
	}

	if !p.sawM02 {
		return nil, newParseError(lx.lineNum, EofMissing, "no M02* statement found before end of input", nil)
	}
	if len(p.builder.stack) != 1 {
		return nil, newParseError(lx.lineNum, BadOperation, "unclosed region, aperture block, or step-and-repeat group at end of input", nil)
	}
	return p.builder.objects(), nil
}

// extendedBody strips the "%<prefix>" opening and "*%" closing delimiters
// from an extended statement, e.g. extendedBody("%MOMM*%", "MO") == "MM".
func extendedBody(text, prefix string) (string, bool) {
	full := "%" + prefix
	if !strings.HasPrefix(text, full) || !strings.HasSuffix(text, "*%") || len(text) < len(full)+2 {
		return "", false
	}
	return text[len(full) : len(text)-2], true
}

// nextPoint resolves an operation's new point from optional X/Y literals
// and the current point (§4.3). Missing X uses current X; missing Y uses
// current Y; both missing is always an error, per
// original_source/gerber.py's get_new_point. If no current point has been
// established yet, a missing axis defaults to 0 (DESIGN.md).
func (p *Parser) nextPoint(xStr, yStr string) (Point, error) {
	if xStr == "" && yStr == "" {
		return Point{}, fmt.Errorf("operation is missing both X and Y")
	}
	curX, curY := 0, 0
	if p.state.currentPoint != nil {
		curX, curY = p.state.currentPoint.X, p.state.currentPoint.Y
	}
	x, y := curX, curY
	if xStr != "" {
		v, err := strconv.Atoi(xStr)
		if err != nil {
			return Point{}, fmt.Errorf("invalid X coordinate %q: %w", xStr, err)
		}
		x = v
	}
	if yStr != "" {
		v, err := strconv.Atoi(yStr)
		if err != nil {
			return Point{}, fmt.Errorf("invalid Y coordinate %q: %w", yStr, err)
		}
		y = v
	}
	return Point{X: x, Y: y}, nil
}

func (p *Parser) originPoint() Point {
	if p.state.currentPoint != nil {
		return *p.state.currentPoint
	}
	return Point{}
}

func (p *Parser) currentApertureSnapshot() (Aperture, error) {
	if p.state.currentAperture == "" {
		return nil, fmt.Errorf("no current aperture selected")
	}
	ap, ok := p.apertures.get(p.state.currentAperture)
	if !ok {
		return nil, fmt.Errorf("aperture %s is not defined", p.state.currentAperture)
	}
	return ap, nil
}

var (
	fsRe      = regexp.MustCompile(`^LAX([1-6])([3-6])Y([1-6])([3-6])$`)
	adRe      = regexp.MustCompile(`^(D[0-9]+)([A-Za-z0-9_.$]+)(?:,(.*))?$`)
	dnnRe     = regexp.MustCompile(`^(D[0-9]+)\*$`)
	srOpenRe  = regexp.MustCompile(`^X([0-9]+)Y([0-9]+)I([+-]?[0-9]+(?:\.[0-9]+)?)J([+-]?[0-9]+(?:\.[0-9]+)?)$`)
	apIDRe    = regexp.MustCompile(`^D[0-9]+$`)
	moveRe    = regexp.MustCompile(`^(?:X([+-]?[0-9]+))?(?:Y([+-]?[0-9]+))?D02\*$`)
	interpRe  = regexp.MustCompile(`^(?:X([+-]?[0-9]+))?(?:Y([+-]?[0-9]+))?(?:I([+-]?[0-9]+))?(?:J([+-]?[0-9]+))?D01\*$`)
	flashRe   = regexp.MustCompile(`^(?:X([+-]?[0-9]+))?(?:Y([+-]?[0-9]+))?D03\*$`)
)

// --- §4.1 no-op / rejection handlers ---

func handleComment(p *Parser, st *rawStatement) error { return nil }

func handleIgnore(p *Parser, st *rawStatement) error { return nil }

func handleNotImplemented(p *Parser, st *rawStatement) error {
	return newParseError(st.line, NotImplementedError, "G74 (single-quadrant mode) is not supported", nil)
}

// --- §4.2 format and unit ---

func handleSetUnit(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "MO")
	if !ok {
		return newParseError(st.line, FormatError, fmt.Sprintf("malformed MO statement: %q", st.text), nil)
	}
	switch body {
	case "MM":
		p.state.unit = UnitMM
	case "IN":
		p.state.unit = UnitIN
	default:
		return newParseError(st.line, FormatError, fmt.Sprintf("unrecognized unit %q", body), nil)
	}
	return nil
}

func handleSetFormat(p *Parser, st *rawStatement) error {
	if p.state.format.IsSet() {
		return newParseError(st.line, FormatError, "format (FS) must be set exactly once", nil)
	}
	body, ok := extendedBody(st.text, "FS")
	if !ok {
		return newParseError(st.line, FormatError, fmt.Sprintf("malformed FS statement: %q", st.text), nil)
	}
	m := fsRe.FindStringSubmatch(body)
	if m == nil {
		return newParseError(st.line, FormatError, fmt.Sprintf("unrecognized format statement: %q", st.text), nil)
	}
	ix, _ := strconv.Atoi(m[1])
	dx, _ := strconv.Atoi(m[2])
	iy, _ := strconv.Atoi(m[3])
	dy, _ := strconv.Atoi(m[4])
	if ix != iy {
		return newParseError(st.line, FormatError, "mismatched format X, Y integer digits", nil)
	}
	if dx != dy {
		return newParseError(st.line, FormatError, "mismatched format X, Y decimal digits", nil)
	}
	f, err := setFormat(ix, dx)
	if err != nil {
		return newParseError(st.line, FormatError, err.Error(), err)
	}
	p.state.format = f
	return nil
}

// --- §4.3 operations and transforms ---

func handleSetInterpolation(p *Parser, st *rawStatement) error {
	switch st.text {
	case "G01*":
		p.state.interpolation = InterpolationLinear
	case "G02*":
		p.state.interpolation = InterpolationCWCircular
	case "G03*":
		p.state.interpolation = InterpolationCCWCircular
	default:
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized interpolation statement: %q", st.text), nil)
	}
	return nil
}

func handleLoadPolarity(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "LP")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed LP statement: %q", st.text), nil)
	}
	switch body {
	case "C":
		p.state.transform.Polarity = PolarityClear
	case "D":
		p.state.transform.Polarity = PolarityDark
	default:
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized polarity %q", body), nil)
	}
	return nil
}

func handleLoadMirroring(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "LM")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed LM statement: %q", st.text), nil)
	}
	switch body {
	case "N":
		p.state.transform.Mirroring = MirrorNone
	case "X":
		p.state.transform.Mirroring = MirrorX
	case "Y":
		p.state.transform.Mirroring = MirrorY
	case "XY":
		p.state.transform.Mirroring = MirrorXY
	default:
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized mirroring %q", body), nil)
	}
	return nil
}

func handleLoadRotation(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "LR")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed LR statement: %q", st.text), nil)
	}
	v, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("invalid rotation %q", body), err)
	}
	p.state.transform.Rotation = v
	return nil
}

func handleLoadScaling(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "LS")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed LS statement: %q", st.text), nil)
	}
	v, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("invalid scaling %q", body), err)
	}
	p.state.transform.Scaling = v
	return nil
}

func handleMove(p *Parser, st *rawStatement) error {
	m := moveRe.FindStringSubmatch(st.text)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed D02 move operation: %q", st.text), nil)
	}
	newPt, err := p.nextPoint(m[1], m[2])
	if err != nil {
		return newParseError(st.line, BadOperation, err.Error(), err)
	}
	p.state.currentPoint = &newPt
	return nil
}

func handleInterpolate(p *Parser, st *rawStatement) error {
	m := interpRe.FindStringSubmatch(st.text)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed D01 interpolate operation: %q", st.text), nil)
	}
	xStr, yStr, iStr, jStr := m[1], m[2], m[3], m[4]
	newPt, err := p.nextPoint(xStr, yStr)
	if err != nil {
		return newParseError(st.line, BadOperation, err.Error(), err)
	}
	origin := p.originPoint()

	switch p.state.interpolation {
	case InterpolationLinear:
		if err := p.emitDraw(origin, newPt, st.line); err != nil {
			return err
		}
	case InterpolationCWCircular, InterpolationCCWCircular:
		if iStr == "" || jStr == "" {
			return newParseError(st.line, BadOperation, "circular interpolation requires both I and J", nil)
		}
		iv, _ := strconv.Atoi(iStr)
		jv, _ := strconv.Atoi(jStr)
		isCW := p.state.interpolation == InterpolationCWCircular
		if err := p.emitArc(origin, newPt, Point{iv, jv}, isCW, st.line); err != nil {
			return err
		}
	default:
		return newParseError(st.line, BadOperation, fmt.Sprintf("invalid interpolation mode %v", p.state.interpolation), nil)
	}
	p.state.currentPoint = &newPt
	return nil
}

func (p *Parser) emitDraw(origin, endpoint Point, line int) error {
	if p.builder.inRegion() {
		d := Draw{TransformSnapshot: p.state.transform, Origin: origin, Endpoint: endpoint}
		if err := p.builder.appendSegment(d); err != nil {
			return newParseError(line, RegionError, err.Error(), err)
		}
		return nil
	}
	ap, err := p.currentApertureSnapshot()
	if err != nil {
		return newParseError(line, UndefinedAperture, err.Error(), err)
	}
	d := Draw{ApertureSnapshot: ap, TransformSnapshot: p.state.transform, Origin: origin, Endpoint: endpoint}
	if _, err := p.builder.appendObject(d); err != nil {
		return newParseError(line, BadOperation, err.Error(), err)
	}
	return nil
}

func (p *Parser) emitArc(origin, endpoint, offset Point, isCW bool, line int) error {
	if p.builder.inRegion() {
		a := Arc{TransformSnapshot: p.state.transform, Origin: origin, Endpoint: endpoint, Offset: offset, IsCW: isCW}
		if err := p.builder.appendSegment(a); err != nil {
			return newParseError(line, RegionError, err.Error(), err)
		}
		return nil
	}
	ap, err := p.currentApertureSnapshot()
	if err != nil {
		return newParseError(line, UndefinedAperture, err.Error(), err)
	}
	a := Arc{ApertureSnapshot: ap, TransformSnapshot: p.state.transform, Origin: origin, Endpoint: endpoint, Offset: offset, IsCW: isCW}
	if _, err := p.builder.appendObject(a); err != nil {
		return newParseError(line, BadOperation, err.Error(), err)
	}
	return nil
}

func handleFlash(p *Parser, st *rawStatement) error {
	if p.builder.inRegion() {
		return newParseError(st.line, RegionError, "D03 flash is not allowed inside a region", nil)
	}
	m := flashRe.FindStringSubmatch(st.text)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed D03 flash operation: %q", st.text), nil)
	}
	newPt, err := p.nextPoint(m[1], m[2])
	if err != nil {
		return newParseError(st.line, BadOperation, err.Error(), err)
	}
	ap, err := p.currentApertureSnapshot()
	if err != nil {
		return newParseError(st.line, UndefinedAperture, err.Error(), err)
	}
	f := Flash{ApertureSnapshot: ap, TransformSnapshot: p.state.transform, Origin: newPt}
	if _, err := p.builder.appendObject(f); err != nil {
		return newParseError(st.line, BadOperation, err.Error(), err)
	}
	p.state.currentPoint = &newPt
	return nil
}

// --- §4.4 aperture define / select ---

func handleApertureDefine(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "AD")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed AD statement: %q", st.text), nil)
	}
	m := adRe.FindStringSubmatch(body)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized aperture define statement: %q", st.text), nil)
	}
	ident, templateName, paramsRaw := m[1], m[2], m[3]
	if !apIDRe.MatchString(ident) {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed aperture id %q", ident), nil)
	}
	if _, exists := p.apertures.get(ident); exists {
		return newParseError(st.line, DuplicateAperture, fmt.Sprintf("aperture %s already defined", ident), nil)
	}

	if fn, ok := p.templates.lookup(templateName); ok {
		ap, err := fn(splitParams(paramsRaw))
		if err != nil {
			return newParseError(st.line, BadOperation, err.Error(), err)
		}
		if err := p.apertures.define(ident, ap); err != nil {
			return newParseError(st.line, DuplicateAperture, err.Error(), err)
		}
		return nil
	}

	if tmpl, ok := p.macros.lookup(templateName); ok {
		params, err := parseMacroADParams(paramsRaw)
		if err != nil {
			return newParseError(st.line, MacroError, err.Error(), err)
		}
		prims, err := instantiateMacro(tmpl.body, params)
		if err != nil {
			return newParseError(st.line, MacroError, err.Error(), err)
		}
		ap := MacroAperture{TemplateName: templateName, Primitives: prims}
		if err := p.apertures.define(ident, ap); err != nil {
			return newParseError(st.line, DuplicateAperture, err.Error(), err)
		}
		return nil
	}

	return newParseError(st.line, UnknownTemplate, fmt.Sprintf("aperture template %q not defined", templateName), nil)
}

func parseMacroADParams(raw string) ([]float64, error) {
	tokens := splitParams(raw)
	params := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		v, err := parseFloatParam(t, "macro parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	return params, nil
}

func handleSelectAperture(p *Parser, st *rawStatement) error {
	m := dnnRe.FindStringSubmatch(st.text)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized select aperture statement: %q", st.text), nil)
	}
	ident := m[1]
	if _, ok := p.apertures.get(ident); !ok {
		return newParseError(st.line, UndefinedAperture, fmt.Sprintf("aperture %s is not defined", ident), nil)
	}
	p.state.currentAperture = ident
	return nil
}

// --- §4.5 macro definition ---

func handleApertureMacro(p *Parser, st *rawStatement) error {
	if !strings.HasPrefix(st.text, "%AM") || !strings.HasSuffix(st.text, "%") {
		return newParseError(st.line, MacroError, fmt.Sprintf("malformed AM statement: %q", st.text), nil)
	}
	inner := st.text[len("%AM") : len(st.text)-1]
	firstStar := strings.IndexByte(inner, '*')
	if firstStar < 0 {
		return newParseError(st.line, MacroError, fmt.Sprintf("malformed AM statement (missing name terminator): %q", st.text), nil)
	}
	name := inner[:firstStar]
	if name == "" {
		return newParseError(st.line, MacroError, "aperture macro name must not be empty", nil)
	}
	body := inner[firstStar+1:]
	p.macros.define(name, body)
	return nil
}

// --- §4.6 regions ---

func handleBeginRegion(p *Parser, st *rawStatement) error {
	if st.text != "G36*" {
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized region begin statement: %q", st.text), nil)
	}
	p.builder.pushRegion(p.state.transform)
	return nil
}

func handleEndRegion(p *Parser, st *rawStatement) error {
	if st.text != "G37*" {
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized region end statement: %q", st.text), nil)
	}
	region, err := p.builder.popRegion()
	if err != nil {
		return newParseError(st.line, RegionError, err.Error(), err)
	}
	if _, err := p.builder.appendObject(region); err != nil {
		return newParseError(st.line, RegionError, err.Error(), err)
	}
	return nil
}

// --- §4.7 aperture blocks and step-and-repeat ---

func handleApertureBlock(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "AB")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed AB statement: %q", st.text), nil)
	}
	if body == "" {
		if len(p.blockIdents) == 0 {
			return newParseError(st.line, BadOperation, "AB* close with no open aperture block", nil)
		}
		ap, err := p.builder.popBlock()
		if err != nil {
			return newParseError(st.line, BadOperation, err.Error(), err)
		}
		ident := p.blockIdents[len(p.blockIdents)-1]
		p.blockIdents = p.blockIdents[:len(p.blockIdents)-1]
		if err := p.apertures.define(ident, ap); err != nil {
			return newParseError(st.line, DuplicateAperture, err.Error(), err)
		}
		return nil
	}
	if !apIDRe.MatchString(body) {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed aperture block id %q", body), nil)
	}
	if _, exists := p.apertures.get(body); exists {
		return newParseError(st.line, DuplicateAperture, fmt.Sprintf("aperture %s already defined", body), nil)
	}
	p.blockIdents = append(p.blockIdents, body)
	p.builder.pushBlock()
	return nil
}

func handleStepRepeat(p *Parser, st *rawStatement) error {
	body, ok := extendedBody(st.text, "SR")
	if !ok {
		return newParseError(st.line, BadOperation, fmt.Sprintf("malformed SR statement: %q", st.text), nil)
	}
	if body == "" {
		if err := p.builder.popStepRepeat(); err != nil {
			return newParseError(st.line, BadOperation, err.Error(), err)
		}
		return nil
	}
	m := srOpenRe.FindStringSubmatch(body)
	if m == nil {
		return newParseError(st.line, BadOperation, fmt.Sprintf("unrecognized step-and-repeat open statement: %q", st.text), nil)
	}
	nx, _ := strconv.Atoi(m[1])
	ny, _ := strconv.Atoi(m[2])
	stepXf, _ := strconv.ParseFloat(m[3], 64)
	stepYf, _ := strconv.ParseFloat(m[4], 64)
	if nx < 1 || ny < 1 {
		return newParseError(st.line, BadOperation, "step-and-repeat nx and ny must be >= 1", nil)
	}
	if stepXf < 0 || stepYf < 0 {
		return newParseError(st.line, BadOperation, "step-and-repeat step values must be >= 0", nil)
	}
	if err := p.builder.pushStepRepeat(nx, ny, int(stepXf), int(stepYf)); err != nil {
		return newParseError(st.line, BadOperation, err.Error(), err)
	}
	return nil
}

// --- end of file ---

func handleEndOfFile(p *Parser, st *rawStatement) error {
	p.sawM02 = true
	return nil
}
