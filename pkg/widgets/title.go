package widgets

import (
	"strings"
	"unicode/utf8"
)

type FontSize string

const (
	FontSizeSM   FontSize = "sm"
	FontSizeBase FontSize = "base"
	FontSizeLG   FontSize = "lg"
	FontSizeXL   FontSize = "xl"
	FontSize2XL  FontSize = "2xl"
	FontSize3XL  FontSize = "3xl"
)

var FontSizes = []FontSize{FontSizeSM, FontSizeBase, FontSizeLG, FontSizeXL, FontSize2XL, FontSize3XL}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

var TextAligns = []TextAlign{TextAlignLeft, TextAlignCenter, TextAlignRight}

type FontWeight string

const (
	FontWeightNormal   FontWeight = "normal"
	FontWeightMedium   FontWeight = "medium"
	FontWeightSemibold FontWeight = "semibold"
	FontWeightBold     FontWeight = "bold"
)

var FontWeights = []FontWeight{FontWeightNormal, FontWeightMedium, FontWeightSemibold, FontWeightBold}

// TitleWidgetData is the data of the title block.
type TitleWidgetData struct {
	Text       string     `json:"text"`
	FontSize   FontSize   `json:"fontSize"`
	TextAlign  TextAlign  `json:"textAlign"`
	FontWeight FontWeight `json:"fontWeight"`
}

const (
	FieldText       = "text"
	FieldFontSize   = "fontSize"
	FieldTextAlign  = "textAlign"
	FieldFontWeight = "fontWeight"
)

const MaxTitleTextLength = 200

const (
	MsgTextRequired      = "El texto es requerido"
	MsgTextTooLong       = "El texto no puede tener más de 200 caracteres"
	MsgFontSizeInvalid   = "Tamaño de fuente inválido"
	MsgTextAlignInvalid  = "Alineación inválida"
	MsgFontWeightInvalid = "Grosor de fuente inválido"
)

// ValidateTitle checks the title block the same way ValidateAgents does:
// every field is checked and all failures are reported.
func ValidateTitle(data TitleWidgetData) ValidationResult {
	errs := make(map[string]string)

	if strings.TrimSpace(data.Text) == "" {
		errs[FieldText] = MsgTextRequired
	} else if utf8.RuneCountInString(data.Text) > MaxTitleTextLength {
		errs[FieldText] = MsgTextTooLong
	}
	if !contains(FontSizes, data.FontSize) {
		errs[FieldFontSize] = MsgFontSizeInvalid
	}
	if !contains(TextAligns, data.TextAlign) {
		errs[FieldTextAlign] = MsgTextAlignInvalid
	}
	if !contains(FontWeights, data.FontWeight) {
		errs[FieldFontWeight] = MsgFontWeightInvalid
	}

	return NewValidationResult(errs)
}

// TitleConfig is the title block widget type.
var TitleConfig = &Config[TitleWidgetData]{
	Type:        TypeTitle,
	Label:       "Título",
	Description: "Un encabezado de texto para tu perfil",
	Icon:        titleIcon,
	Fields: []Field{
		{Name: FieldText, Label: "Texto", Kind: FieldKindText},
		{Name: FieldFontSize, Label: "Tamaño", Kind: FieldKindSelect, Options: stringsOf(FontSizes)},
		{Name: FieldTextAlign, Label: "Alineación", Kind: FieldKindSelect, Options: stringsOf(TextAligns)},
		{Name: FieldFontWeight, Label: "Grosor", Kind: FieldKindSelect, Options: stringsOf(FontWeights)},
	},
	DefaultData: TitleWidgetData{
		Text:       "Mi perfil",
		FontSize:   FontSize2XL,
		TextAlign:  TextAlignCenter,
		FontWeight: FontWeightBold,
	},
	Validator:  ValidateTitle,
	DataSchema: titleSchema(),
}

func contains[S ~string](values []S, value S) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func stringsOf[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = string(value)
	}
	return out
}
