package synth

import "github.com/alexanderramin/appletgen/internal/domain"

// Key names a field the model may be asked to produce.
type Key string

const (
	KeyTitle            Key = "title"
	KeyGiven            Key = "given"
	KeyToFind           Key = "tofind"
	KeyComputeSteps     Key = "compute_steps"
	KeyCheckSteps       Key = "check_steps"
	KeyConnectQuestions Key = "connect_questions"
	KeyScene            Key = "scene"
)

// MaxFactLength bounds a single given/to-find phrase.
const MaxFactLength = 160

// RequiredKeys lists the fields absent from rec, in prompt order.
func RequiredKeys(rec *domain.AppletRecord) []Key {
	var keys []Key
	if rec.Title == "" {
		keys = append(keys, KeyTitle)
	}
	if len(rec.Given) == 0 {
		keys = append(keys, KeyGiven)
	}
	if len(rec.ToFind) == 0 {
		keys = append(keys, KeyToFind)
	}
	if len(rec.ComputeSteps) == 0 {
		keys = append(keys, KeyComputeSteps)
	}
	if len(rec.CheckSteps) == 0 {
		keys = append(keys, KeyCheckSteps)
	}
	if len(rec.ConnectQuestions) == 0 {
		keys = append(keys, KeyConnectQuestions)
	}
	if !rec.HasScene() {
		keys = append(keys, KeyScene)
	}
	return keys
}

// keyTypes is the type description each key carries in the prompt.
var keyTypes = map[Key]string{
	KeyTitle:            `string: short display title for the problem`,
	KeyGiven:            `array of strings: each one known fact, one line, at most 160 characters`,
	KeyToFind:           `array of strings: each one quantity to find, one line, at most 160 characters`,
	KeyComputeSteps:     `array of strings: ordered worked-solution steps`,
	KeyCheckSteps:       `array of strings: ordered steps that verify the answer`,
	KeyConnectQuestions: `array of {"question": string, "options": [{"text": string, "correct": bool}]}: at least one correct and one incorrect option each`,
	KeyScene:            `object: Zdog scene program {"global": {...}, "scenes": {"<name>": {"shapes": [...]}}}`,
}
