package gerber

// MacroPrimitive is the sum type over the Gerber macro primitive codes
// (§3, §4.5 table).
type MacroPrimitive interface {
	macroPrimitiveTag()
}

// MacroCircle is primitive code 1.
type MacroCircle struct {
	Exposure float64
	Diameter float64
	X, Y     float64
	Rotation float64
}

func (MacroCircle) macroPrimitiveTag() {}

// MacroVectorLine is primitive code 20.
type MacroVectorLine struct {
	Exposure   float64
	Width      float64
	X1, Y1     float64
	X2, Y2     float64
	Rotation   float64
}

func (MacroVectorLine) macroPrimitiveTag() {}

// MacroCenterLine is primitive code 21.
type MacroCenterLine struct {
	Exposure     float64
	Width, Height float64
	X, Y         float64
	Rotation     float64
}

func (MacroCenterLine) macroPrimitiveTag() {}

// MacroOutline is primitive code 4: exposure, N vertices, a start point,
// N trailing (x,y) pairs, and a final rotation.
type MacroOutline struct {
	Exposure    float64
	Vertices    int
	X, Y        float64
	Coordinates []float64 // 2*Vertices values: x,y,x,y,...
	Rotation    float64
}

func (MacroOutline) macroPrimitiveTag() {}

// MacroPolygon is primitive code 5.
type MacroPolygon struct {
	Exposure float64
	Vertices int
	X, Y     float64
	Diameter float64
	Rotation float64
}

func (MacroPolygon) macroPrimitiveTag() {}

// MacroMoire is primitive code 6.
type MacroMoire struct {
	X, Y                float64
	OuterDiameter       float64
	RingThickness       float64
	Gap                 float64
	NumRings            int
	CrosshairThickness  float64
	CrosshairLength     float64
	Rotation            float64
}

func (MacroMoire) macroPrimitiveTag() {}

// MacroThermal is primitive code 7.
type MacroThermal struct {
	X, Y           float64
	OuterDiameter  float64
	InnerDiameter  float64
	Gap            float64
	Rotation       float64
}

func (MacroThermal) macroPrimitiveTag() {}

// macroTemplate is a macro definition as stored by %AM...*%: the raw body
// text, parsed only lazily, at AD-instantiation time (§4.5).
type macroTemplate struct {
	name string
	body string // text between the opening "%AM<name>*" and the closing "%", blocks joined by '*'
}

// macroRegistry stores macro definitions by name, distinct from the
// built-in template registry (§4.4: AD looks up either one).
type macroRegistry struct {
	byName map[string]macroTemplate
}

func newMacroRegistry() *macroRegistry {
	return &macroRegistry{byName: make(map[string]macroTemplate)}
}

func (r *macroRegistry) define(name, body string) {
	r.byName[name] = macroTemplate{name: name, body: body}
}

func (r *macroRegistry) lookup(name string) (macroTemplate, bool) {
	t, ok := r.byName[name]
	return t, ok
}
