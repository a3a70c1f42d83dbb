package marketplace

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/mturk"
	"github.com/aws/aws-sdk-go-v2/service/mturk/types"
	"github.com/aws/smithy-go"
	"github.com/ljbaker/turkhit/pkg/hit"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	input *mturk.CreateHITInput
	calls int
	out   *mturk.CreateHITOutput
	err   error
}

func (s *stubAPI) CreateHIT(_ context.Context, params *mturk.CreateHITInput, _ ...func(*mturk.Options)) (*mturk.CreateHITOutput, error) {
	s.calls++
	s.input = params
	return s.out, s.err
}

func TestCreateHITReturnsIdentifier(t *testing.T) {
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	stub := &stubAPI{out: &mturk.CreateHITOutput{HIT: &types.HIT{
		HITId:        aws.String("3HIT"),
		HITTypeId:    aws.String("3TYPE"),
		HITGroupId:   aws.String("3GROUP"),
		CreationTime: aws.Time(created),
		Expiration:   aws.Time(created.Add(6 * time.Hour)),
	}}}
	client := NewClientWithAPI(stub, Sandbox)

	got, err := client.CreateHIT(context.Background(), hit.Sandbox().Request)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)
	require.Equal(t, "3HIT", got.HITID)
	require.Equal(t, "3GROUP", got.HITGroupID)
	require.Equal(t, created.Add(6*time.Hour), got.Expiration)
	require.Equal(t, "Identifying Facial Expressions", aws.ToString(stub.input.Title))
	require.Len(t, stub.input.QualificationRequirements, 3)
}

func TestCreateHITServiceRejection(t *testing.T) {
	stub := &stubAPI{err: &smithy.GenericAPIError{Code: "ParameterValidationError", Message: "Reward must be positive"}}
	client := NewClientWithAPI(stub, Sandbox)

	_, err := client.CreateHIT(context.Background(), hit.Sandbox().Request)
	require.Error(t, err)
	require.Equal(t, 1, stub.calls)
	require.Contains(t, err.Error(), "ParameterValidationError")

	var apiErr smithy.APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestCreateHITEmptyResponse(t *testing.T) {
	client := NewClientWithAPI(&stubAPI{out: &mturk.CreateHITOutput{}}, Sandbox)
	_, err := client.CreateHIT(context.Background(), hit.Sandbox().Request)
	require.Error(t, err)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Sandbox, Credentials{AccessKeyID: "AK"})
	require.Error(t, err)
}

func TestCreateHITSignedRequest(t *testing.T) {
	var (
		target  string
		auth    string
		payload map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target = r.Header.Get("X-Amz-Target")
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")
		_, _ = w.Write([]byte(`{"HIT":{"HITId":"3WIRE","HITTypeId":"3T","HITGroupId":"3G"}}`))
	}))
	defer server.Close()

	endpoint := Endpoint{URL: server.URL, PreviewURL: server.URL + "/preview"}
	client, err := NewClient(context.Background(), endpoint,
		Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"},
		func(o *mturk.Options) { o.HTTPClient = server.Client() })
	require.NoError(t, err)

	got, err := client.CreateHIT(context.Background(), hit.Sandbox().Request)
	require.NoError(t, err)
	require.Equal(t, "3WIRE", got.HITID)
	require.True(t, strings.HasSuffix(target, ".CreateHIT"), target)
	require.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256"), auth)
	require.Contains(t, auth, "AKIDEXAMPLE")
	require.Equal(t, "0.75", payload["Reward"])
	require.EqualValues(t, 900, payload["AssignmentDurationInSeconds"])
}

func TestEndpointPreview(t *testing.T) {
	require.Equal(t, "https://workersandbox.mturk.com/mturk/preview?groupId=3G", Sandbox.Preview("3G"))

	e, err := EndpointFor(hit.EnvProduction)
	require.NoError(t, err)
	require.Equal(t, Production, e)

	_, err = EndpointFor("staging")
	require.Error(t, err)
}
