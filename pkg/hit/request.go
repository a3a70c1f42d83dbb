package hit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mturk"
)

// Request describes a single HIT to post. All values are passed to the
// marketplace as-is; the service performs validation.
type Request struct {
	Title          string
	Description    string
	Keywords       string
	Reward         float64 // USD
	Duration       time.Duration
	Lifetime       time.Duration
	MaxAssignments int32
	ApprovalDelay  time.Duration
	Question       ExternalQuestion
	Qualifications []Qualification

	// UniqueToken, when set, is sent as the UniqueRequestToken so the
	// service rejects a second submission of the same request.
	UniqueToken string
}

// Input converts the request into the CreateHIT call parameters.
func (r Request) Input() (*mturk.CreateHITInput, error) {
	question, err := r.Question.XML()
	if err != nil {
		return nil, err
	}

	input := &mturk.CreateHITInput{
		Title:                       aws.String(r.Title),
		Description:                 aws.String(r.Description),
		Keywords:                    aws.String(r.Keywords),
		Reward:                      aws.String(FormatReward(r.Reward)),
		AssignmentDurationInSeconds: aws.Int64(Seconds(r.Duration)),
		LifetimeInSeconds:           aws.Int64(Seconds(r.Lifetime)),
		AutoApprovalDelayInSeconds:  aws.Int64(Seconds(r.ApprovalDelay)),
		MaxAssignments:              aws.Int32(r.MaxAssignments),
		Question:                    aws.String(question),
	}
	for _, q := range r.Qualifications {
		input.QualificationRequirements = append(input.QualificationRequirements, q.Requirement())
	}
	if r.UniqueToken != "" {
		input.UniqueRequestToken = aws.String(r.UniqueToken)
	}
	return input, nil
}

// Fingerprint returns a hex SHA-256 over the request fields that define the
// posted task. UniqueToken is not part of it.
func (r Request) Fingerprint() string {
	r.UniqueToken = ""
	// Request holds only strings, numbers and slices of the same, so
	// marshalling cannot fail and field order is fixed.
	b, _ := json.Marshal(r)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Seconds truncates d to whole seconds, the unit the marketplace expects.
func Seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// FormatReward renders a USD amount the way the marketplace expects it.
func FormatReward(usd float64) string {
	return fmt.Sprintf("%.2f", usd)
}
