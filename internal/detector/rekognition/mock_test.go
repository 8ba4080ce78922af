package rekognition

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

// mockDetectFacesAPI is a mock implementation of DetectFacesAPI for testing
type mockDetectFacesAPI struct {
	output    *rekognition.DetectFacesOutput
	err       error
	lastInput *rekognition.DetectFacesInput
}

func (m *mockDetectFacesAPI) DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	m.lastInput = params
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &rekognition.DetectFacesOutput{}, nil
}

// mockAPIError implements smithy.APIError for error-mapping tests
type mockAPIError struct {
	code string
}

func (e *mockAPIError) Error() string                 { return e.code }
func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return e.code }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

var _ smithy.APIError = (*mockAPIError)(nil)

// testFrame encodes a solid PNG of the given dimensions.
func testFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
