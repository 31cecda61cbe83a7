package qr

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige-rentals/internal/models"
)

func TestBuildPayloadFormat(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	payload := BuildPayload("PR-AB12CD34", 42, start, end)
	assert.Equal(t, "BookingRef:PR-AB12CD34;VehicleId:42;Start:2024-06-01T10:00:00Z;End:2024-06-03T10:00:00Z", payload)
}

func TestBuildPayloadNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	end := time.Date(2024, 6, 2, 12, 0, 0, 0, loc)

	payload := BuildPayload("PR-AB12CD34", 1, start, end)
	assert.Contains(t, payload, "Start:2024-06-01T10:00:00Z")
	assert.Contains(t, payload, "End:2024-06-02T10:00:00Z")
}

func TestExtractReference(t *testing.T) {
	payload := "BookingRef:PR-9F3K2L8M;VehicleId:5;Start:2024-06-01T10:00:00Z;End:2024-06-03T10:00:00Z"

	ref, err := ExtractReference(payload)
	require.NoError(t, err)
	assert.Equal(t, "PR-9F3K2L8M", ref)
}

func TestExtractReferenceRejectsForeignPayloads(t *testing.T) {
	for _, payload := range []string{
		"",
		"https://example.com/some-random-qr",
		"BookingRef:XX-12345678;VehicleId:1",
		"BookingRef:PR-short",
		"BookingRef:PR-lower1case",
	} {
		_, err := ExtractReference(payload)
		assert.ErrorIs(t, err, models.ErrInvalidQRFormat, "payload %q", payload)
	}
}

func TestRenderProducesPNG(t *testing.T) {
	png, err := Render("BookingRef:PR-AB12CD34;VehicleId:1;Start:2024-06-01T10:00:00Z;End:2024-06-03T10:00:00Z")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestDataURIWrapsBase64PNG(t *testing.T) {
	uri, err := DataURI("BookingRef:PR-AB12CD34;VehicleId:1;Start:2024-06-01T10:00:00Z;End:2024-06-03T10:00:00Z")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func TestRenderDecodeRoundTrip(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	payload := BuildPayload("PR-AB12CD34", 7, start, start.Add(48*time.Hour))

	png, err := Render(payload)
	require.NoError(t, err)

	decoded, err := Decode(png)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	ref, err := ExtractReference(decoded)
	require.NoError(t, err)
	assert.Equal(t, "PR-AB12CD34", ref)
}

// Every issued code must scan back, whatever reference the generator
// produced; a code that renders but never decodes locks the customer out at
// pickup.
func TestRenderDecodeRoundTripAcrossReferences(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	references := []string{
		"PR-ZZ99YY88",
		"PR-00000000",
		"PR-AAAAAAAA",
		"PR-99999999",
		"PR-A1B2C3D4",
		"PR-ZYXWVUTS",
		"PR-10293847",
		"PR-QQ11WW22",
		"PR-F0E1D2C3",
		"PR-MNOPQRST",
		"PR-7G8H9J0K",
		"PR-Z0Z9A1A8",
	}

	for _, ref := range references {
		payload := BuildPayload(ref, 42, start, start.Add(48*time.Hour))

		png, err := Render(payload)
		require.NoError(t, err, "reference %s", ref)

		decoded, err := Decode(png)
		require.NoError(t, err, "reference %s must decode back", ref)
		assert.Equal(t, payload, decoded, "reference %s", ref)
	}
}

func TestDecodeRejectsNonImage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}
