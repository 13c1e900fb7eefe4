package framing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	msg := DriveWheels{LeftSpeedMMPS: 100, RightSpeedMMPS: -50, LeftAccelMMPS2: 200, RightAccelMMPS2: 200}
	payload := make([]byte, msg.Size())
	msg.Marshal(payload)

	buf := make([]byte, 64)
	n, err := Encode(buf, TagDriveWheels, payload)
	require.NoError(t, err)

	frame, consumed, err := Decode(buf[:n])
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	require.Equal(t, TagDriveWheels, frame.Tag)

	var got DriveWheels
	got.Unmarshal(frame.Payload)
	require.Equal(t, msg, got)
}

func TestDecodeIncomplete(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 64)
	n, err := Encode(buf, TagClearPath, nil)
	require.NoError(t, err)

	_, _, err = Decode(buf[:n-1])
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeBadMagic(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16)
	_, _, err := Decode(buf)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeCorruptedPayloadFailsCRC(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 64)
	n, err := Encode(buf, TagSetLiftHeight, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	buf[headerSize] ^= 0xFF
	_, _, err = Decode(buf[:n])
	require.ErrorIs(t, err, ErrBadCRC)
}
