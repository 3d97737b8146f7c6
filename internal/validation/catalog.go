// Package validation moves untrusted input through shape checks (type
// validators) and domain rules (business validators), reporting every failing
// field as a domain.FieldError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

const DefaultLocale = "es"

// Message keys for failures the struct-tag validator does not cover.
const (
	MsgObject       = "type.object"
	MsgString       = "type.string"
	MsgNumber       = "type.number"
	MsgInteger      = "type.integer"
	MsgBoolean      = "type.boolean"
	MsgArray        = "type.array"
	MsgNull         = "type.null"
	MsgTime         = "type.time"
	MsgUnknownField = "type.unknown_field"
	MsgUnsupported  = "type.unsupported"
	MsgBody         = "type.body"

	MsgPasswordFormat = "password.format"
	MsgPasswordLength = "password.length"
	MsgTuitionFormat  = "tuition.format"
	MsgNameFormat     = "name.format"
	MsgSurnameFormat  = "surname.format"
	MsgClassName      = "class.name_length"

	MsgEmailNotFound     = "email.not_found"
	MsgEmailTaken        = "email.taken"
	MsgTuitionTaken      = "tuition.taken"
	MsgPasswordIncorrect = "password.incorrect"
	MsgClassNameTaken    = "class.name_taken"
	MsgNotTeacher        = "role.not_teacher"

	MsgOptionsCount      = "question.options_count"
	MsgChoiceRequired    = "question.choice_required"
	MsgChoiceRange       = "question.choice_range"
	MsgValueRequired     = "question.value_required"
	MsgDuplicateQuestion = "question.duplicate"
)

var messages = map[string]map[string]string{
	"es": {
		MsgObject:       "debe ser un objeto",
		MsgString:       "debe ser una cadena de texto",
		MsgNumber:       "debe ser un número",
		MsgInteger:      "debe ser un número entero",
		MsgBoolean:      "debe ser verdadero o falso",
		MsgArray:        "debe ser una lista",
		MsgNull:         "no puede ser nulo",
		MsgTime:         "debe ser una fecha RFC 3339",
		MsgUnknownField: "campo no permitido",
		MsgUnsupported:  "tipo no soportado",
		MsgBody:         "el cuerpo debe ser un objeto JSON válido",

		MsgPasswordFormat: "debe tener al menos 8 caracteres e incluir una minúscula, una mayúscula y un carácter especial",
		MsgPasswordLength: "es demasiado larga",
		MsgTuitionFormat:  "debe tener el formato A.000000 o P.000000",
		MsgNameFormat:     "debe escribirse en mayúsculas",
		MsgSurnameFormat:  "debe escribirse en mayúsculas, opcionalmente precedido de DE, DEL, DE LA, DE LAS o DE LOS",
		MsgClassName:      "debe tener entre 3 y 80 caracteres",

		MsgEmailNotFound:     "no existe una cuenta con este correo",
		MsgEmailTaken:        "este correo ya está registrado",
		MsgTuitionTaken:      "esta matrícula ya está registrada",
		MsgPasswordIncorrect: "la contraseña es incorrecta",
		MsgClassNameTaken:    "ya tienes una clase con este nombre",
		MsgNotTeacher:        "solo los profesores pueden crear clases",

		MsgOptionsCount:      "debe tener al menos 2 opciones",
		MsgChoiceRequired:    "es obligatorio para preguntas de opción múltiple",
		MsgChoiceRange:       "debe señalar una de las opciones",
		MsgValueRequired:     "es obligatorio para preguntas de verdadero o falso",
		MsgDuplicateQuestion: "identificador de pregunta repetido",
	},
	"en": {
		MsgObject:       "must be an object",
		MsgString:       "must be a string",
		MsgNumber:       "must be a number",
		MsgInteger:      "must be an integer",
		MsgBoolean:      "must be true or false",
		MsgArray:        "must be a list",
		MsgNull:         "must not be null",
		MsgTime:         "must be an RFC 3339 timestamp",
		MsgUnknownField: "unknown field",
		MsgUnsupported:  "unsupported type",
		MsgBody:         "body must be a valid JSON object",

		MsgPasswordFormat: "must be at least 8 characters and include a lowercase letter, an uppercase letter and a special character",
		MsgPasswordLength: "is too long",
		MsgTuitionFormat:  "must look like A.000000 or P.000000",
		MsgNameFormat:     "must be upper case",
		MsgSurnameFormat:  "must be upper case, optionally preceded by DE, DEL, DE LA, DE LAS or DE LOS",
		MsgClassName:      "must be between 3 and 80 characters",

		MsgEmailNotFound:     "no account uses this email",
		MsgEmailTaken:        "email is already registered",
		MsgTuitionTaken:      "tuition is already registered",
		MsgPasswordIncorrect: "password is incorrect",
		MsgClassNameTaken:    "you already have a class with this name",
		MsgNotTeacher:        "only teachers can create classes",

		MsgOptionsCount:      "must have at least 2 options",
		MsgChoiceRequired:    "is required for multiple choice questions",
		MsgChoiceRange:       "must point at one of the options",
		MsgValueRequired:     "is required for true/false questions",
		MsgDuplicateQuestion: "duplicate question id",
	},
}

// Catalog bundles a struct validator with the translator for one locale.
// It is safe for concurrent use once built.
type Catalog struct {
	locale   string
	validate *validator.Validate
	trans    ut.Translator
}

func NewCatalog(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	if _, ok := messages[locale]; !ok {
		return nil, fmt.Errorf("%w: unsupported locale %q", domain.ErrMisconfigured, locale)
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, es.New())
	trans, _ := uni.GetTranslator(locale)

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	var err error
	switch locale {
	case "es":
		err = es_translations.RegisterDefaultTranslations(v, trans)
	default:
		err = en_translations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s translations: %w", locale, err)
	}

	return &Catalog{locale: locale, validate: v, trans: trans}, nil
}

// MustCatalog is NewCatalog for package-level setup and tests.
func MustCatalog(locale string) *Catalog {
	c, err := NewCatalog(locale)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Locale() string { return c.locale }

// Message returns the localized text for key, or the key itself when unknown.
func (c *Catalog) Message(key string) string {
	if msg, ok := messages[c.locale][key]; ok {
		return msg
	}
	return key
}

// FieldError builds a localized field failure.
func (c *Catalog) FieldError(field, key string) domain.FieldError {
	return domain.FieldError{Field: field, Message: c.Message(key)}
}

// structErrors runs the tag rules on v and converts failures to field errors,
// skipping fields whose shape already failed.
func (c *Catalog) structErrors(v any, skip map[string]bool) domain.FieldErrors {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Single("body", err.Error())
	}

	var out domain.FieldErrors
	for _, fe := range verrs {
		path := namespacePath(fe.Namespace())
		if skip[path] {
			continue
		}
		out = append(out, domain.FieldError{Field: path, Message: fe.Translate(c.trans)})
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// namespacePath turns "NewUser.questions[0].type" into "questions.0.type".
func namespacePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}
