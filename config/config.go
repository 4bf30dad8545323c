package config

// SkeletonConfig contains the bean body plan: masses, capsule dimensions and
// joint anchor offsets, all relative to the torso center. Values match the
// bean asset generator.
type SkeletonConfig struct {
	// Masses (kg)
	TorsoMass    float64
	HeadMass     float64
	UpperArmMass float64
	ForearmMass  float64
	ThighMass    float64
	ShinMass     float64

	// Capsule dimensions (radius, cylinder half-height)
	TorsoRadius        float64
	TorsoHalfHeight    float64
	HeadRadius         float64
	UpperArmRadius     float64
	UpperArmHalfHeight float64
	ForearmRadius      float64
	ForearmHalfHeight  float64
	ThighRadius        float64
	ThighHalfHeight    float64
	ShinRadius         float64
	ShinHalfHeight     float64

	// Joint anchors, torso-local (X mirrored for the left side)
	NeckY     float64
	ShoulderX float64
	ShoulderY float64
	HipX      float64
	HipY      float64

	// Hinge limits (radians)
	ElbowMin float64
	ElbowMax float64
	KneeMin  float64
	KneeMax  float64
}

// PoseConfig contains the pose target resolver tuning
type PoseConfig struct {
	RootHeight     float64 // torso center height above the controller position
	TeleportDistSq float64 // squared torso drift that triggers a snap
	RootFollowRate float64 // exponential follow rate toward the root target, 1/s

	// Lean
	MaxLean        float64 // radians
	LeanAccelScale float64 // lean radians per m/s^2 of horizontal acceleration
	LeanSmoothing  float64 // exponential decay rate, 1/s

	// Idle sway
	SwayAmplitude      float64 // radians
	SwayFrequency      float64 // Hz
	SwaySpeedThreshold float64 // m/s below which sway is at full strength
	SwayPitchFreqRatio float64 // pitch sway frequency relative to roll
	SwayPitchScale     float64 // pitch sway amplitude relative to roll

	// Walk / sprint cycle
	WalkFrequency        float64 // Hz at reference speed
	SprintFrequencyScale float64
	StrideSpeedRef       float64 // m/s at which swing reaches full amplitude
	ArmSwingAmplitude    float64 // meters of hand travel
	ArmShapeExponent     float64 // power curve exponent for arm swing
	UpperArmSwingScale   float64 // upper arm travel relative to the hand
	LegSwingAmplitude    float64 // meters of foot travel
	ShinPhaseLag         float64 // radians the shin trails the thigh in the cycle
	ElbowSwingAngle      float64 // radians of elbow motor swing
	KneeLiftAngle        float64 // radians of one-sided knee lift
	RestElbowAngle       float64 // relaxed elbow bend at standstill, radians

	// Landing
	FallSpeedThreshold float64 // m/s of downward motion that marks the bean airborne
	LandSpeedThreshold float64 // m/s of downward motion below which it has touched down
	LandingKickPitch   float64 // forward pitch kick on touchdown, radians
}

// MotorConfig contains the joint motor and limb force tuning
type MotorConfig struct {
	HingeGain    float64 // PD gain at stiffness 1
	HingeDamping float64

	PosGain             float64 // limb position spring, at stiffness 1
	VelDamping          float64
	GravityCompensation float64 // fraction of weight countered at stiffness 1

	IdleDampingMultiplier float64 // extra damping when the avatar is near rest
	IdleSpeedThreshold    float64 // m/s
}

// StiffnessConfig contains the state machine tuning
type StiffnessConfig struct {
	ActiveMax     float64 // limb stiffness cap in the active state
	StunSoftening float64 // stiffness removed per unit of controller stun

	RecoveryBase          float64 // seconds for a factor-1 limb to recover
	RecoverySnapTolerance float64 // remaining gap at which recovery snaps done

	// Recovery speed factors per limb class; lower recovers first
	RecoveryFactorTorso    float64
	RecoveryFactorHead     float64
	RecoveryFactorThigh    float64
	RecoveryFactorShin     float64
	RecoveryFactorUpperArm float64
	RecoveryFactorForearm  float64

	LandingSoftness float64 // stiffness multiplier during the landing window
	LandingDuration float64 // seconds
}

// HitWeights are the relative odds for the weighted random struck-bone
// pick, by limb class.
type HitWeights struct {
	Torso    float64
	Head     float64
	UpperArm float64
	Forearm  float64
	Thigh    float64
	Shin     float64
}

// CombatConfig contains hit reaction and knockout tuning
type CombatConfig struct {
	DirectionalScale float64 // multiplies the caller's magnitude on the horizontal axes
	UpwardImpulse    float64 // fixed upward term added to every hit
	HeavyTorque      float64 // angular impulse on the struck limb, heavy only

	SpreadFraction float64 // share of the impulse echoed to the other limbs, heavy only

	// Stiffness drop on hit: every limb is capped at the drop value and the
	// struck limb falls to half of it.
	StiffnessDropLight float64
	StiffnessDropHeavy float64
	HitTimerLight      float64 // seconds in hit_reaction
	HitTimerHeavy      float64

	// Heavy attacks bias the upper body; light attacks spread wider.
	HitWeightsLight HitWeights
	HitWeightsHeavy HitWeights

	KnockoutCollapseImpulse float64 // downward shove on knockout
	KnockoutScatterImpulse  float64 // randomized sideways limb scatter on knockout
	KnockoutRecoverySeconds float64
}

// AttackConfig contains the attack pose sub-state timing and reach
type AttackConfig struct {
	JabSeconds    float64 // light attack, single phase
	WindupSeconds float64 // heavy phases
	StrikeSeconds float64
	FollowSeconds float64

	JabReach    float64 // meters the fist target extends forward
	StrikeReach float64
	WindupPull  float64 // meters the fist pulls back during windup
	StrikeElbow float64 // elbow motor angle at full extension, radians
}

// GrabConfig contains grab joint and throw tuning
type GrabConfig struct {
	RestLength    float64 // spring rest distance, meters
	Stiffness     float64 // N/m
	Damping       float64 // N*s/m
	StiffnessCap  float64 // limb stiffness ceiling while grabbed
	ThrowImpulse  float64 // N*s distributed over the whole body on release
	ThrowUpward   float64 // fraction of throw impulse redirected upward
	ThrowReaction float64 // seconds of hit_reaction after being thrown
}

// WorldConfig contains the physics world tuning
type WorldConfig struct {
	Gravity          float64 // m/s^2, negative is down
	FloorY           float64
	MaxStepSeconds   float64 // dt clamp for World.Step
	SolverIterations int

	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
	Friction       float64
}

// Global configuration instances
var Skeleton SkeletonConfig
var Pose PoseConfig
var Motor MotorConfig
var Stiffness StiffnessConfig
var Combat CombatConfig
var Attack AttackConfig
var Grab GrabConfig
var World WorldConfig

func init() {
	Skeleton = SkeletonConfig{
		TorsoMass:    12.0,
		HeadMass:     3.0,
		UpperArmMass: 1.6,
		ForearmMass:  1.2,
		ThighMass:    2.4,
		ShinMass:     1.8,

		TorsoRadius:        0.32,
		TorsoHalfHeight:    0.35,
		HeadRadius:         0.26,
		UpperArmRadius:     0.10,
		UpperArmHalfHeight: 0.20,
		ForearmRadius:      0.09,
		ForearmHalfHeight:  0.18,
		ThighRadius:        0.11,
		ThighHalfHeight:    0.22,
		ShinRadius:         0.085,
		ShinHalfHeight:     0.22,

		NeckY:     0.38,
		ShoulderX: 0.36,
		ShoulderY: 0.245,
		HipX:      0.12,
		HipY:      -0.35,

		ElbowMin: -2.4,
		ElbowMax: 0,
		KneeMin:  0,
		KneeMax:  2.4,
	}

	Pose = PoseConfig{
		RootHeight:     1.32,
		TeleportDistSq: 9.0, // 3 meters of drift means a respawn or desync
		RootFollowRate: 18.0,

		MaxLean:        0.35,
		LeanAccelScale: 0.04,
		LeanSmoothing:  8.0,

		SwayAmplitude:      0.05,
		SwayFrequency:      0.45,
		SwaySpeedThreshold: 0.5,
		SwayPitchFreqRatio: 0.63, // off the roll frequency so the sway never loops visibly
		SwayPitchScale:     0.5,

		WalkFrequency:        1.8,
		SprintFrequencyScale: 1.45,
		StrideSpeedRef:       4.0,
		ArmSwingAmplitude:    0.28,
		ArmShapeExponent:     1.6,
		UpperArmSwingScale:   0.5,
		LegSwingAmplitude:    0.30,
		ShinPhaseLag:         0.4,
		ElbowSwingAngle:      0.7,
		KneeLiftAngle:        1.1,
		RestElbowAngle:       -0.35,

		FallSpeedThreshold: 1.0,
		LandSpeedThreshold: 0.1,
		LandingKickPitch:   0.18,
	}

	Motor = MotorConfig{
		HingeGain:    28.0,
		HingeDamping: 3.2,

		PosGain:             14.0,
		VelDamping:          2.2,
		GravityCompensation: 0.92, // slightly under 1 so slack limbs still hang

		IdleDampingMultiplier: 1.8,
		IdleSpeedThreshold:    0.25,
	}

	Stiffness = StiffnessConfig{
		ActiveMax:     1.0,
		StunSoftening: 0.6,

		RecoveryBase:          0.9,
		RecoverySnapTolerance: 0.02,

		// Core recovers first so the bean rights itself before flailing
		RecoveryFactorTorso:    0.6,
		RecoveryFactorHead:     0.8,
		RecoveryFactorThigh:    1.0,
		RecoveryFactorShin:     1.1,
		RecoveryFactorUpperArm: 1.3,
		RecoveryFactorForearm:  1.5,

		LandingSoftness: 0.55,
		LandingDuration: 0.22,
	}

	Combat = CombatConfig{
		DirectionalScale: 1.0,
		UpwardImpulse:    9.0,
		HeavyTorque:      6.0,

		SpreadFraction: 0.3,

		StiffnessDropLight: 0.5,
		StiffnessDropHeavy: 0.24,
		HitTimerLight:      0.28,
		HitTimerHeavy:      0.55,

		HitWeightsLight: HitWeights{
			Torso:    3.0,
			Head:     1.0,
			UpperArm: 2.0,
			Forearm:  2.0,
			Thigh:    2.0,
			Shin:     1.5,
		},
		HitWeightsHeavy: HitWeights{
			Torso:    3.0,
			Head:     2.0,
			UpperArm: 2.5,
			Forearm:  1.0,
			Thigh:    0.5,
			Shin:     0.5,
		},

		KnockoutCollapseImpulse: 14.0,
		KnockoutScatterImpulse:  4.0,
		KnockoutRecoverySeconds: 2.4,
	}

	Attack = AttackConfig{
		JabSeconds:    0.16,
		WindupSeconds: 0.18,
		StrikeSeconds: 0.12,
		FollowSeconds: 0.22,

		JabReach:    0.45,
		StrikeReach: 0.62,
		WindupPull:  0.25,
		StrikeElbow: -0.15, // nearly straight arm at full extension
	}

	Grab = GrabConfig{
		RestLength:    0.45,
		Stiffness:     220.0,
		Damping:       18.0,
		StiffnessCap:  0.35,
		ThrowImpulse:  55.0,
		ThrowUpward:   0.35,
		ThrowReaction: 0.3,
	}

	World = WorldConfig{
		Gravity:          -9.81,
		FloorY:           0,
		MaxStepSeconds:   1.0 / 30.0,
		SolverIterations: 8,

		LinearDamping:  0.4,
		AngularDamping: 1.2,
		Restitution:    0.1,
		Friction:       6.0,
	}
}
