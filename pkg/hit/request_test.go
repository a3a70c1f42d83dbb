package hit

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mturk/types"
	"github.com/stretchr/testify/require"
)

func TestSandboxInput(t *testing.T) {
	input, err := Sandbox().Request.Input()
	require.NoError(t, err)

	require.Equal(t, "Identifying Facial Expressions", aws.ToString(input.Title))
	require.Equal(t, "faces, emotions", aws.ToString(input.Keywords))
	require.Equal(t, "0.75", aws.ToString(input.Reward))
	require.Equal(t, int64(15*60), aws.ToInt64(input.AssignmentDurationInSeconds))
	require.Equal(t, int64(6*60*60), aws.ToInt64(input.LifetimeInSeconds))
	require.Equal(t, int64(60*60), aws.ToInt64(input.AutoApprovalDelayInSeconds))
	require.Equal(t, int32(100), aws.ToInt32(input.MaxAssignments))
	require.Nil(t, input.UniqueRequestToken)
	require.True(t, strings.HasPrefix(aws.ToString(input.Description), "Participate in a simple psychological experiment"))
	require.Contains(t, aws.ToString(input.Question), "<ExternalURL>https://ljbaker.github.io/CAFE_face_rating.html</ExternalURL>")
}

func TestProductionInput(t *testing.T) {
	input, err := Production().Request.Input()
	require.NoError(t, err)

	require.Equal(t, "Identifying Facial Expressions - 5 Minutes", aws.ToString(input.Title))
	require.Equal(t, "faces, emotions, psychology, experiment", aws.ToString(input.Keywords))
	require.Equal(t, "0.75", aws.ToString(input.Reward))
	require.Equal(t, int64(20*60), aws.ToInt64(input.AssignmentDurationInSeconds))
	require.Equal(t, int64(6*60*60), aws.ToInt64(input.LifetimeInSeconds))
	require.Equal(t, int32(85), aws.ToInt32(input.MaxAssignments))
	require.Contains(t, aws.ToString(input.Question), "face_cat_experiment/CAFE_face_rating.html")
}

func TestQualificationSet(t *testing.T) {
	tests := []struct {
		preset      Preset
		minApproved int32
	}{
		{Sandbox(), 1},
		{Production(), 10},
	}
	for _, tt := range tests {
		t.Run(tt.preset.Name, func(t *testing.T) {
			input, err := tt.preset.Request.Input()
			require.NoError(t, err)
			reqs := input.QualificationRequirements
			require.Len(t, reqs, 3)

			require.Equal(t, PercentAssignmentsApprovedTypeID, aws.ToString(reqs[0].QualificationTypeId))
			require.Equal(t, types.ComparatorGreaterThanOrEqualTo, reqs[0].Comparator)
			require.Equal(t, []int32{95}, reqs[0].IntegerValues)

			require.Equal(t, NumberHITsApprovedTypeID, aws.ToString(reqs[1].QualificationTypeId))
			require.Equal(t, types.ComparatorGreaterThanOrEqualTo, reqs[1].Comparator)
			require.Equal(t, []int32{tt.minApproved}, reqs[1].IntegerValues)

			require.Equal(t, LocaleTypeID, aws.ToString(reqs[2].QualificationTypeId))
			require.Equal(t, types.ComparatorEqualTo, reqs[2].Comparator)
			require.Len(t, reqs[2].LocaleValues, 1)
			require.Equal(t, "US", aws.ToString(reqs[2].LocaleValues[0].Country))
			require.Empty(t, reqs[2].IntegerValues)
		})
	}
}

func TestExternalQuestionXML(t *testing.T) {
	q := ExternalQuestion{URL: "https://example.org/exp?a=1&b=2", FrameHeight: 600}
	doc, err := q.XML()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	require.Contains(t, doc, `<ExternalQuestion xmlns="http://mechanicalturk.amazonaws.com/AWSMechanicalTurkDataSchemas/2006-07-14/ExternalQuestion.xsd">`)
	require.Contains(t, doc, "<ExternalURL>https://example.org/exp?a=1&amp;b=2</ExternalURL>")
	require.Contains(t, doc, "<FrameHeight>600</FrameHeight>")
}

func TestFingerprint(t *testing.T) {
	sandbox := Sandbox().Request
	require.Len(t, sandbox.Fingerprint(), 64)
	require.Equal(t, sandbox.Fingerprint(), Sandbox().Request.Fingerprint())
	require.NotEqual(t, sandbox.Fingerprint(), Production().Request.Fingerprint())

	tokened := sandbox
	tokened.UniqueToken = "abc"
	require.Equal(t, sandbox.Fingerprint(), tokened.Fingerprint())

	input, err := tokened.Input()
	require.NoError(t, err)
	require.Equal(t, "abc", aws.ToString(input.UniqueRequestToken))
}

func TestLookupPreset(t *testing.T) {
	p, err := LookupPreset(PresetProduction)
	require.NoError(t, err)
	require.Equal(t, EnvProduction, p.Environment)

	_, err = LookupPreset("staging")
	require.Error(t, err)
	require.Equal(t, []string{"production", "sandbox"}, PresetNames())
}
