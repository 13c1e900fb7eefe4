package framing

import "encoding/binary"

// The structs below are the fixed-layout payloads carried by each Tag
// (spec.md §6). Each has Marshal/Unmarshal pair writing/reading
// little-endian fields directly into/from a caller-supplied buffer: no
// reflection, no allocation beyond what the caller already owns.

// DriveWheels is TagDriveWheels's payload.
type DriveWheels struct {
	LeftSpeedMMPS, RightSpeedMMPS   float32
	LeftAccelMMPS2, RightAccelMMPS2 float32
}

func (m DriveWheels) Size() int { return 16 }

func (m DriveWheels) Marshal(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], floatBits(m.LeftSpeedMMPS))
	binary.LittleEndian.PutUint32(dst[4:8], floatBits(m.RightSpeedMMPS))
	binary.LittleEndian.PutUint32(dst[8:12], floatBits(m.LeftAccelMMPS2))
	binary.LittleEndian.PutUint32(dst[12:16], floatBits(m.RightAccelMMPS2))
}

func (m *DriveWheels) Unmarshal(src []byte) {
	m.LeftSpeedMMPS = bitsFloat(binary.LittleEndian.Uint32(src[0:4]))
	m.RightSpeedMMPS = bitsFloat(binary.LittleEndian.Uint32(src[4:8]))
	m.LeftAccelMMPS2 = bitsFloat(binary.LittleEndian.Uint32(src[8:12]))
	m.RightAccelMMPS2 = bitsFloat(binary.LittleEndian.Uint32(src[12:16]))
}

// DriveArc is TagDriveArc's payload.
type DriveArc struct {
	CurvaturePerMM, SpeedMMPS, AccelMMPS2 float32
}

func (m DriveArc) Size() int { return 12 }
func (m DriveArc) Marshal(dst []byte) {
	putF32(dst[0:4], m.CurvaturePerMM)
	putF32(dst[4:8], m.SpeedMMPS)
	putF32(dst[8:12], m.AccelMMPS2)
}
func (m *DriveArc) Unmarshal(src []byte) {
	m.CurvaturePerMM = getF32(src[0:4])
	m.SpeedMMPS = getF32(src[4:8])
	m.AccelMMPS2 = getF32(src[8:12])
}

// PointTurn is TagPointTurn's payload.
type PointTurn struct {
	TargetHeadingRad, AngularVelRadps, AngularAccelRadps2, AngularDecelRadps2 float32
}

func (m PointTurn) Size() int { return 16 }
func (m PointTurn) Marshal(dst []byte) {
	putF32(dst[0:4], m.TargetHeadingRad)
	putF32(dst[4:8], m.AngularVelRadps)
	putF32(dst[8:12], m.AngularAccelRadps2)
	putF32(dst[12:16], m.AngularDecelRadps2)
}
func (m *PointTurn) Unmarshal(src []byte) {
	m.TargetHeadingRad = getF32(src[0:4])
	m.AngularVelRadps = getF32(src[4:8])
	m.AngularAccelRadps2 = getF32(src[8:12])
	m.AngularDecelRadps2 = getF32(src[12:16])
}

// SetHeadAngle is TagSetHeadAngle's payload.
type SetHeadAngle struct{ AngleRad float32 }

func (m SetHeadAngle) Size() int           { return 4 }
func (m SetHeadAngle) Marshal(dst []byte)  { putF32(dst[0:4], m.AngleRad) }
func (m *SetHeadAngle) Unmarshal(src []byte) { m.AngleRad = getF32(src[0:4]) }

// SetLiftHeight is TagSetLiftHeight's payload.
type SetLiftHeight struct{ HeightMM float32 }

func (m SetLiftHeight) Size() int            { return 4 }
func (m SetLiftHeight) Marshal(dst []byte)   { putF32(dst[0:4], m.HeightMM) }
func (m *SetLiftHeight) Unmarshal(src []byte) { m.HeightMM = getF32(src[0:4]) }

// AppendPathSegment is TagAppendPathSegment's payload: a tagged union of the
// three segment kinds, flattened into fixed fields so the struct stays a
// constant size regardless of which kind is active (spec.md §6
// AppendPathSegment, §3 Segment).
type AppendPathSegment struct {
	// Kind: 0=line (A,B,C,D = x0,y0,x1,y1), 1=arc (A,B,C,D,E =
	// centerX,centerY,radiusMM,startAngleRad,sweepAngleRad), 2=point-turn
	// (A = targetHeadingRad).
	Kind                            uint8
	A, B, C, D, E                   float32
	TargetSpeedMMPS                 float32
	AccelMMPS2, DecelMMPS2          float32
}

func (m AppendPathSegment) Size() int { return 1 + 4*8 }
func (m AppendPathSegment) Marshal(dst []byte) {
	dst[0] = m.Kind
	putF32(dst[1:5], m.A)
	putF32(dst[5:9], m.B)
	putF32(dst[9:13], m.C)
	putF32(dst[13:17], m.D)
	putF32(dst[17:21], m.E)
	putF32(dst[21:25], m.TargetSpeedMMPS)
	putF32(dst[25:29], m.AccelMMPS2)
	putF32(dst[29:33], m.DecelMMPS2)
}
func (m *AppendPathSegment) Unmarshal(src []byte) {
	m.Kind = src[0]
	m.A = getF32(src[1:5])
	m.B = getF32(src[5:9])
	m.C = getF32(src[9:13])
	m.D = getF32(src[13:17])
	m.E = getF32(src[17:21])
	m.TargetSpeedMMPS = getF32(src[21:25])
	m.AccelMMPS2 = getF32(src[25:29])
	m.DecelMMPS2 = getF32(src[29:33])
}

// StartDock is TagStartDock's payload.
type StartDock struct {
	MarkerID      uint32
	Action        uint8
	MarkerWidthMM float32
	SpeedOverride float32
}

func (m StartDock) Size() int { return 13 }
func (m StartDock) Marshal(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], m.MarkerID)
	dst[4] = m.Action
	putF32(dst[5:9], m.MarkerWidthMM)
	putF32(dst[9:13], m.SpeedOverride)
}
func (m *StartDock) Unmarshal(src []byte) {
	m.MarkerID = binary.LittleEndian.Uint32(src[0:4])
	m.Action = src[4]
	m.MarkerWidthMM = getF32(src[5:9])
	m.SpeedOverride = getF32(src[9:13])
}

// PickAndPlace is TagPickAndPlace's payload.
type PickAndPlace struct {
	MarkerID uint32
	Action   uint8
}

func (m PickAndPlace) Size() int { return 5 }
func (m PickAndPlace) Marshal(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], m.MarkerID)
	dst[4] = m.Action
}
func (m *PickAndPlace) Unmarshal(src []byte) {
	m.MarkerID = binary.LittleEndian.Uint32(src[0:4])
	m.Action = src[4]
}

// PlayAnimation is TagPlayAnimation's payload.
type PlayAnimation struct {
	ID  uint16
	Tag uint16
}

func (m PlayAnimation) Size() int { return 4 }
func (m PlayAnimation) Marshal(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], m.ID)
	binary.LittleEndian.PutUint16(dst[2:4], m.Tag)
}
func (m *PlayAnimation) Unmarshal(src []byte) {
	m.ID = binary.LittleEndian.Uint16(src[0:2])
	m.Tag = binary.LittleEndian.Uint16(src[2:4])
}

// SetLED is TagSetLED's payload.
type SetLED struct {
	Channel      uint8
	R, G, B, A   uint8
}

func (m SetLED) Size() int { return 5 }
func (m SetLED) Marshal(dst []byte) {
	dst[0], dst[1], dst[2], dst[3], dst[4] = m.Channel, m.R, m.G, m.B, m.A
}
func (m *SetLED) Unmarshal(src []byte) {
	m.Channel, m.R, m.G, m.B, m.A = src[0], src[1], src[2], src[3], src[4]
}

// StartTestMode is TagStartTestMode's payload.
type StartTestMode struct {
	ID             uint8
	P1, P2, P3     int32
}

func (m StartTestMode) Size() int { return 13 }
func (m StartTestMode) Marshal(dst []byte) {
	dst[0] = m.ID
	binary.LittleEndian.PutUint32(dst[1:5], uint32(m.P1))
	binary.LittleEndian.PutUint32(dst[5:9], uint32(m.P2))
	binary.LittleEndian.PutUint32(dst[9:13], uint32(m.P3))
}
func (m *StartTestMode) Unmarshal(src []byte) {
	m.ID = src[0]
	m.P1 = int32(binary.LittleEndian.Uint32(src[1:5]))
	m.P2 = int32(binary.LittleEndian.Uint32(src[5:9]))
	m.P3 = int32(binary.LittleEndian.Uint32(src[9:13]))
}

// RobotState is TagRobotState's outbound payload.
type RobotState struct {
	PoseXMM, PoseYMM, PoseHeadingRad float32
	LeftSpeedMMPS, RightSpeedMMPS    float32
	LiftHeightMM, HeadAngleRad       float32
	GyroZRadps                       float32
	BatteryMillivolts                uint16
	Flags                            uint32
	Tick                             uint32
}

func (m RobotState) Size() int { return 4*8 + 2 + 4 + 4 }
func (m RobotState) Marshal(dst []byte) {
	putF32(dst[0:4], m.PoseXMM)
	putF32(dst[4:8], m.PoseYMM)
	putF32(dst[8:12], m.PoseHeadingRad)
	putF32(dst[12:16], m.LeftSpeedMMPS)
	putF32(dst[16:20], m.RightSpeedMMPS)
	putF32(dst[20:24], m.LiftHeightMM)
	putF32(dst[24:28], m.HeadAngleRad)
	putF32(dst[28:32], m.GyroZRadps)
	binary.LittleEndian.PutUint16(dst[32:34], m.BatteryMillivolts)
	binary.LittleEndian.PutUint32(dst[34:38], m.Flags)
	binary.LittleEndian.PutUint32(dst[38:42], m.Tick)
}
func (m *RobotState) Unmarshal(src []byte) {
	m.PoseXMM = getF32(src[0:4])
	m.PoseYMM = getF32(src[4:8])
	m.PoseHeadingRad = getF32(src[8:12])
	m.LeftSpeedMMPS = getF32(src[12:16])
	m.RightSpeedMMPS = getF32(src[16:20])
	m.LiftHeightMM = getF32(src[20:24])
	m.HeadAngleRad = getF32(src[24:28])
	m.GyroZRadps = getF32(src[28:32])
	m.BatteryMillivolts = binary.LittleEndian.Uint16(src[32:34])
	m.Flags = binary.LittleEndian.Uint32(src[34:38])
	m.Tick = binary.LittleEndian.Uint32(src[38:42])
}

// ActionCompleted is TagActionCompleted's outbound payload.
type ActionCompleted struct {
	Kind    uint8
	Success bool
}

func (m ActionCompleted) Size() int { return 2 }
func (m ActionCompleted) Marshal(dst []byte) {
	dst[0] = m.Kind
	if m.Success {
		dst[1] = 1
	} else {
		dst[1] = 0
	}
}
func (m *ActionCompleted) Unmarshal(src []byte) {
	m.Kind = src[0]
	m.Success = src[1] != 0
}

// VisionMarkerObservation is TagVisionMarkerObservation's inbound payload
// (vision → docking, spec.md §6).
type VisionMarkerObservation struct {
	MarkerID                          uint32
	XRelMM, YRelMM, ThetaRelRad float32
}

func (m VisionMarkerObservation) Size() int { return 16 }
func (m VisionMarkerObservation) Marshal(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], m.MarkerID)
	putF32(dst[4:8], m.XRelMM)
	putF32(dst[8:12], m.YRelMM)
	putF32(dst[12:16], m.ThetaRelRad)
}
func (m *VisionMarkerObservation) Unmarshal(src []byte) {
	m.MarkerID = binary.LittleEndian.Uint32(src[0:4])
	m.XRelMM = getF32(src[4:8])
	m.YRelMM = getF32(src[8:12])
	m.ThetaRelRad = getF32(src[12:16])
}

func putF32(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, floatBits(v)) }
func getF32(src []byte) float32    { return bitsFloat(binary.LittleEndian.Uint32(src)) }
