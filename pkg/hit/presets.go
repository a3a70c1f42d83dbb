package hit

import (
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/mturk/types"
)

// Environment selects which marketplace the HIT is posted to.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

const (
	PresetSandbox    = "sandbox"
	PresetProduction = "production"
)

// Preset is a fixed parameter table for one experiment run.
type Preset struct {
	Name        string
	Environment Environment
	Request     Request
}

const (
	frameHeight   = 600
	activeHours   = 6
	approvalDelay = 1 * time.Hour
	rewardUSD     = 0.75

	experimentDescription = `Participate in a simple psychological experiment on emotional recognition. You will pick a label that best defines a series of faces (e.g., "happy", "sad", etc.). The entire HIT should take approximately 5 minutes (reward is estimated according to $9/hr).`
)

// Sandbox is the face rating experiment posted to the test marketplace.
func Sandbox() Preset {
	return Preset{
		Name:        PresetSandbox,
		Environment: EnvSandbox,
		Request: Request{
			Title:          "Identifying Facial Expressions",
			Description:    experimentDescription,
			Keywords:       "faces, emotions",
			Reward:         rewardUSD,
			Duration:       15 * time.Minute,
			Lifetime:       activeHours * time.Hour,
			MaxAssignments: 100,
			ApprovalDelay:  approvalDelay,
			Question: ExternalQuestion{
				URL:         "https://ljbaker.github.io/CAFE_face_rating.html",
				FrameHeight: frameHeight,
			},
			Qualifications: []Qualification{
				PercentAssignmentsApproved(types.ComparatorGreaterThanOrEqualTo, 95),
				NumberHITsApproved(types.ComparatorGreaterThanOrEqualTo, 1),
				Locale(types.ComparatorEqualTo, "US"),
			},
		},
	}
}

// Production is the face categorisation experiment posted to the live
// marketplace. Every run creates a billable HIT.
func Production() Preset {
	return Preset{
		Name:        PresetProduction,
		Environment: EnvProduction,
		Request: Request{
			Title:          "Identifying Facial Expressions - 5 Minutes",
			Description:    experimentDescription,
			Keywords:       "faces, emotions, psychology, experiment",
			Reward:         rewardUSD,
			Duration:       20 * time.Minute,
			Lifetime:       activeHours * time.Hour,
			MaxAssignments: 85,
			ApprovalDelay:  approvalDelay,
			Question: ExternalQuestion{
				URL:         "https://ljbaker.github.io/face_cat_experiment/CAFE_face_rating.html",
				FrameHeight: frameHeight,
			},
			Qualifications: []Qualification{
				PercentAssignmentsApproved(types.ComparatorGreaterThanOrEqualTo, 95),
				NumberHITsApproved(types.ComparatorGreaterThanOrEqualTo, 10),
				Locale(types.ComparatorEqualTo, "US"),
			},
		},
	}
}

var presets = map[string]func() Preset{
	PresetSandbox:    Sandbox,
	PresetProduction: Production,
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, error) {
	fn, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
