package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"time"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"

	"prestige-rentals/internal/models"
)

// Codes are rendered at a fixed edge length. Per-module scaling produced
// images the decoder intermittently rejected; a fixed size decodes reliably
// across the whole reference charset.
const imageSize = 660

var referencePattern = regexp.MustCompile(`BookingRef:(PR-[A-Z0-9]{8})`)

// BuildPayload produces the exact text encoded into a booking QR code. The
// format is load-bearing: the check-in scanner extracts the reference from
// it by regex.
func BuildPayload(bookingReference string, vehicleID int64, start, end time.Time) string {
	return fmt.Sprintf("BookingRef:%s;VehicleId:%d;Start:%s;End:%s",
		bookingReference,
		vehicleID,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)
}

// ExtractReference pulls the booking reference out of a decoded QR payload.
func ExtractReference(payload string) (string, error) {
	match := referencePattern.FindStringSubmatch(payload)
	if match == nil {
		return "", models.ErrInvalidQRFormat
	}
	return match[1], nil
}

// Render encodes the payload into a PNG byte buffer.
func Render(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.High, imageSize)
}

// DataURI renders the payload and wraps it as a data:image/png URI for
// direct embedding in mails and API responses.
func DataURI(payload string) (string, error) {
	png, err := Render(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decode reads a QR code out of a PNG or JPEG image and returns its text.
func Decode(imageBytes []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		// Retry with a more exhaustive scan before giving up; camera
		// photos of printed codes often need it.
		hints := map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		}
		result, err = zxqrcode.NewQRCodeReader().Decode(bmp, hints)
	}
	if err != nil {
		return "", fmt.Errorf("no qr code found in image: %w", err)
	}

	return result.GetText(), nil
}
