package gerber

import "regexp"

// handlerFunc processes one classified statement against parser state.
type handlerFunc func(p *Parser, st *rawStatement) error

// wordCodeRe finds the first G/D/M two-digit code in a word statement
// (§4.1), mirroring original_source/gerber.py's get_command_function
// regex `[GDM](\d\d)`.
var wordCodeRe = regexp.MustCompile(`[GDM](\d\d)`)

// classify determines the dispatch-table key for a statement (§4.1).
func classify(text string) (string, bool) {
	if len(text) >= 3 && text[0] == '%' {
		return text[1:3], true
	}
	m := wordCodeRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	code := m[0]
	if code[0] == 'D' {
		// D-codes >= 10 select an aperture; D01/D02/D03 are operations.
		n := 0
		for _, c := range m[1] {
			n = n*10 + int(c-'0')
		}
		if n >= 10 {
			return "Dnn", true
		}
	}
	return code, true
}

func dispatchTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		"G04": handleComment,
		"MO":  handleSetUnit,
		"FS":  handleSetFormat,
		"AD":  handleApertureDefine,
		"AM":  handleApertureMacro,
		"Dnn": handleSelectAperture,
		"D01": handleInterpolate,
		"D02": handleMove,
		"D03": handleFlash,
		"G01": handleSetInterpolation,
		"G02": handleSetInterpolation,
		"G03": handleSetInterpolation,
		"G74": handleNotImplemented,
		"G75": handleIgnore,
		"LP":  handleLoadPolarity,
		"LM":  handleLoadMirroring,
		"LR":  handleLoadRotation,
		"LS":  handleLoadScaling,
		"G36": handleBeginRegion,
		"G37": handleEndRegion,
		"AB":  handleApertureBlock,
		"SR":  handleStepRepeat,
		"TF":  handleIgnore,
		"TA":  handleIgnore,
		"TO":  handleIgnore,
		"TD":  handleIgnore,
		"M02": handleEndOfFile,
	}
}
