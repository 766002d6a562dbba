package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	secondaryCaptureClass  = "1.2.840.10008.5.1.4.1.1.7"
)

// uidNamespace scopes the name-based UUIDs behind generated UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("camoforge"))

// DeterministicUID returns a DICOM UID under the 2.25 root derived from a
// name-based UUID of seed. Equal seeds give equal UIDs.
func DeterministicUID(seed string) string {
	u := uuid.NewSHA1(uidNamespace, []byte(seed))
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// encodeDICOM writes img as an 8-bit RGB Secondary Capture instance.
func encodeDICOM(w io.Writer, img image.Image, opts Options) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	pixelsPerFrame := width * height

	nativeFrame := frame.NewNativeFrame[uint8](8, height, width, pixelsPerFrame, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*width + x) * 3
			nativeFrame.RawData[i] = uint8(r >> 8)
			nativeFrame.RawData[i+1] = uint8(g >> 8)
			nativeFrame.RawData[i+2] = uint8(bl >> 8)
		}
	}

	seed := opts.UIDSeed
	if seed == "" {
		sum := sha256.Sum256(nativeFrame.RawData)
		seed = opts.Description + "/" + hex.EncodeToString(sum[:])
	}
	studyUID := DeterministicUID(seed + "_study")
	seriesUID := DeterministicUID(seed + "_series")
	sopInstanceUID := DeterministicUID(seed + "_instance")

	description := opts.Description
	if description == "" {
		description = "camoforge pattern"
	}
	now := time.Now()

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{secondaryCaptureClass}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.SOPClassUID, []string{secondaryCaptureClass}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.StudyDate, []string{now.Format("20060102")}),
		mustNewElement(tag.StudyTime, []string{now.Format("150405")}),
		mustNewElement(tag.Modality, []string{"OT"}),
		mustNewElement(tag.ConversionType, []string{"SYN"}),
		mustNewElement(tag.SeriesDescription, []string{description}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.InstanceNumber, []string{"1"}),
		mustNewElement(tag.PatientName, []string{"CAMOFORGE^PATTERN"}),
		mustNewElement(tag.PatientID, []string{"CAMOFORGE"}),
		mustNewElement(tag.Manufacturer, []string{"camoforge"}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.SamplesPerPixel, []int{3}),
		mustNewElement(tag.PhotometricInterpretation, []string{"RGB"}),
		mustNewElement(tag.PlanarConfiguration, []int{0}),
		mustNewElement(tag.BitsAllocated, []int{8}),
		mustNewElement(tag.BitsStored, []int{8}),
		mustNewElement(tag.HighBit, []int{7}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.PixelData, dicom.PixelDataInfo{
			Frames: []*frame.Frame{
				{
					Encapsulated: false,
					NativeData:   nativeFrame,
				},
			},
		}),
	}

	return dicom.Write(w, dicom.Dataset{Elements: elements})
}
