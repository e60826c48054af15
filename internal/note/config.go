package note

import "fmt"

// Role is the logical meaning of a field, independent of its name.
type Role string

const (
	RoleWord               Role = "word"
	RoleIPA                Role = "ipa"
	RoleTranslation        Role = "translation"
	RoleExample            Role = "example"
	RoleExampleTranslation Role = "example_translation"
	RoleAudio              Role = "audio"
	RoleImage              Role = "image"
)

// Roles returns every role in card order.
func Roles() []Role {
	return []Role{
		RoleWord,
		RoleIPA,
		RoleTranslation,
		RoleExample,
		RoleExampleTranslation,
		RoleAudio,
		RoleImage,
	}
}

// FieldConfig maps each role to a field name.
type FieldConfig struct {
	Word               string
	IPA                string
	Translation        string
	Example            string
	ExampleTranslation string
	Audio              string
	Image              string
}

// DefaultFieldConfig returns the field names of the stock note type.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Word:               "Word",
		IPA:                "IPA",
		Translation:        "BasicTrans",
		Example:            "Example",
		ExampleTranslation: "ExampleTrans",
		Audio:              "Audio",
		Image:              "Image",
	}
}

// Name returns the field name configured for role.
func (c FieldConfig) Name(role Role) string {
	switch role {
	case RoleWord:
		return c.Word
	case RoleIPA:
		return c.IPA
	case RoleTranslation:
		return c.Translation
	case RoleExample:
		return c.Example
	case RoleExampleTranslation:
		return c.ExampleTranslation
	case RoleAudio:
		return c.Audio
	case RoleImage:
		return c.Image
	default:
		return ""
	}
}

// Validate reports roles without a field name.
func (c FieldConfig) Validate() error {
	for _, role := range Roles() {
		if c.Name(role) == "" {
			return fmt.Errorf("no field name configured for %s", role)
		}
	}
	return nil
}
