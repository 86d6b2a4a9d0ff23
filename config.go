package skycity

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Keyframe is a single authored camera pose. Keyframes are immutable once
// the show starts.
type Keyframe struct {
	Position Vec3    `json:"position" mapstructure:"position"`
	Yaw      float64 `json:"yaw" mapstructure:"yaw"`
	Pitch    float64 `json:"pitch" mapstructure:"pitch"`
}

// CameraConfig holds the keyframe choreography parameters.
type CameraConfig struct {
	Enabled         bool       `json:"enabled" mapstructure:"enabled"`
	DefaultFOV      float64    `json:"defaultFov" mapstructure:"defaultFov"`
	FinalFOV        float64    `json:"finalFov" mapstructure:"finalFov"`
	Keyframes       []Keyframe `json:"keyframes" mapstructure:"keyframes"`
	TransitionTimes []float64  `json:"transitionTimes" mapstructure:"transitionTimes"`
}

// AirplaneConfig parameterizes the airplane and wingman animator.
type AirplaneConfig struct {
	ModelPath      string  `json:"modelPath" mapstructure:"modelPath"`
	SpawnTime      float64 `json:"spawnTime" mapstructure:"spawnTime"`
	Height         float64 `json:"height" mapstructure:"height"`
	Speed          float64 `json:"speed" mapstructure:"speed"`
	Lifetime       float64 `json:"lifetime" mapstructure:"lifetime"`
	Direction      Vec3    `json:"direction" mapstructure:"direction"`
	StartPosition  Vec3    `json:"startPosition" mapstructure:"startPosition"`
	Scale          Vec3    `json:"scale" mapstructure:"scale"`
	WingmanScale   Vec3    `json:"wingmanScale" mapstructure:"wingmanScale"`
	WingmanOffsets []Vec3  `json:"wingmanOffsets" mapstructure:"wingmanOffsets"`

	CameraTracking bool    `json:"cameraTracking" mapstructure:"cameraTracking"`
	CameraDistance float64 `json:"cameraDistance" mapstructure:"cameraDistance"`
	CameraHeight   float64 `json:"cameraHeight" mapstructure:"cameraHeight"`
}

// TrailConfig parameterizes the rainbow trails emitted behind the airplane
// and each wingman.
type TrailConfig struct {
	Enabled          bool    `json:"enabled" mapstructure:"enabled"`
	SpawnRate        float64 `json:"spawnRate" mapstructure:"spawnRate"`
	ParticleLifetime float64 `json:"particleLifetime" mapstructure:"particleLifetime"`
	StartSize        float64 `json:"startSize" mapstructure:"startSize"`
	EndSize          float64 `json:"endSize" mapstructure:"endSize"`
	InitialSpeed     float64 `json:"initialSpeed" mapstructure:"initialSpeed"`
	SpeedVariance    float64 `json:"speedVariance" mapstructure:"speedVariance"`
	EmissionOffset   float64 `json:"emissionOffset" mapstructure:"emissionOffset"`
	HorizontalJitter float64 `json:"horizontalJitter" mapstructure:"horizontalJitter"`
	VerticalJitter   float64 `json:"verticalJitter" mapstructure:"verticalJitter"`
	LateralDrift     float64 `json:"lateralDrift" mapstructure:"lateralDrift"`
	VerticalDrift    float64 `json:"verticalDrift" mapstructure:"verticalDrift"`
	Gravity          float64 `json:"gravity" mapstructure:"gravity"`
	Colors           []Color `json:"colors" mapstructure:"colors"`
}

// MissileConfig parameterizes the missile animator and its explosion burst.
type MissileConfig struct {
	ModelPath        string  `json:"modelPath" mapstructure:"modelPath"`
	DropDelay        float64 `json:"dropDelay" mapstructure:"dropDelay"`
	FallSpeed        float64 `json:"fallSpeed" mapstructure:"fallSpeed"`
	FallAngle        float64 `json:"fallAngle" mapstructure:"fallAngle"`
	Scale            Vec3    `json:"scale" mapstructure:"scale"`
	GroundHeight     float64 `json:"groundHeight" mapstructure:"groundHeight"`
	RotationSpeed    float64 `json:"rotationSpeed" mapstructure:"rotationSpeed"`
	CameraTrackDelay float64 `json:"cameraTrackDelay" mapstructure:"cameraTrackDelay"`
	CameraDistance   float64 `json:"cameraDistance" mapstructure:"cameraDistance"`
	CameraHeight     float64 `json:"cameraHeight" mapstructure:"cameraHeight"`
	CameraLookAhead  float64 `json:"cameraLookAhead" mapstructure:"cameraLookAhead"`

	ExplosionEnabled   bool    `json:"explosionEnabled" mapstructure:"explosionEnabled"`
	ExplosionCount     int     `json:"explosionCount" mapstructure:"explosionCount"`
	ExplosionSpeed     Range   `json:"explosionSpeed" mapstructure:"explosionSpeed"`
	ExplosionLifetime  Range   `json:"explosionLifetime" mapstructure:"explosionLifetime"`
	ExplosionStartSize float64 `json:"explosionStartSize" mapstructure:"explosionStartSize"`
	ExplosionEndSize   float64 `json:"explosionEndSize" mapstructure:"explosionEndSize"`
	ExplosionGravity   float64 `json:"explosionGravity" mapstructure:"explosionGravity"`
	ExplosionColors    []Color `json:"explosionColors" mapstructure:"explosionColors"`
}

// FlagConfig parameterizes the cloth flag and its pole.
type FlagConfig struct {
	Enabled        bool    `json:"enabled" mapstructure:"enabled"`
	Position       Vec3    `json:"position" mapstructure:"position"`
	Yaw            float64 `json:"yaw" mapstructure:"yaw"`
	Width          float64 `json:"width" mapstructure:"width"`
	Height         float64 `json:"height" mapstructure:"height"`
	ControlPointsU int     `json:"controlPointsU" mapstructure:"controlPointsU"`
	ControlPointsV int     `json:"controlPointsV" mapstructure:"controlPointsV"`
	SegmentsU      int     `json:"segmentsU" mapstructure:"segmentsU"`
	SegmentsV      int     `json:"segmentsV" mapstructure:"segmentsV"`
	WaveAmplitude  float64 `json:"waveAmplitude" mapstructure:"waveAmplitude"`
	WaveFrequency  float64 `json:"waveFrequency" mapstructure:"waveFrequency"`

	DebugControlPoints bool    `json:"debugControlPoints" mapstructure:"debugControlPoints"`
	MarkerSize         float64 `json:"markerSize" mapstructure:"markerSize"`
	MarkerColor        Color   `json:"markerColor" mapstructure:"markerColor"`

	PoleEnabled    bool    `json:"poleEnabled" mapstructure:"poleEnabled"`
	PoleHeight     float64 `json:"poleHeight" mapstructure:"poleHeight"`
	PoleRadius     float64 `json:"poleRadius" mapstructure:"poleRadius"`
	PoleBallRadius float64 `json:"poleBallRadius" mapstructure:"poleBallRadius"`
	PoleSegments   int     `json:"poleSegments" mapstructure:"poleSegments"`
}

// LanternConfig parameterizes the sky-lantern pool.
type LanternConfig struct {
	Enabled          bool     `json:"enabled" mapstructure:"enabled"`
	ModelPath        string   `json:"modelPath" mapstructure:"modelPath"`
	PoolSize         int      `json:"poolSize" mapstructure:"poolSize"`
	SpawnCenter      Vec3     `json:"spawnCenter" mapstructure:"spawnCenter"`
	SpawnHalfExtents Vec3     `json:"spawnHalfExtents" mapstructure:"spawnHalfExtents"`
	SpawnInterval    float64  `json:"spawnInterval" mapstructure:"spawnInterval"`
	SpawnStartTime   float64  `json:"spawnStartTime" mapstructure:"spawnStartTime"`
	SpawnCount       IntRange `json:"spawnCount" mapstructure:"spawnCount"`
	Lifetime         Range    `json:"lifetime" mapstructure:"lifetime"`
	TargetHeight     Range    `json:"targetHeight" mapstructure:"targetHeight"`
	Speed            Range    `json:"speed" mapstructure:"speed"`
	Scale            Vec3     `json:"scale" mapstructure:"scale"`
	LightColor       Color    `json:"lightColor" mapstructure:"lightColor"`
	LightIntensity   float64  `json:"lightIntensity" mapstructure:"lightIntensity"`
	LightRadius      float64  `json:"lightRadius" mapstructure:"lightRadius"`
}

// SkyConfig parameterizes the day/night blend cycle. The four windows are
// traversed in order and the cycle wraps at their sum.
type SkyConfig struct {
	DayDuration          float64 `json:"dayDuration" mapstructure:"dayDuration"`
	DayToNightTransition float64 `json:"dayToNightTransition" mapstructure:"dayToNightTransition"`
	NightDuration        float64 `json:"nightDuration" mapstructure:"nightDuration"`
	NightToDayTransition float64 `json:"nightToDayTransition" mapstructure:"nightToDayTransition"`
}

// Config is the full read-only parameter set supplied once at startup.
type Config struct {
	Camera       CameraConfig   `json:"camera" mapstructure:"camera"`
	Airplane     AirplaneConfig `json:"airplane" mapstructure:"airplane"`
	Trail        TrailConfig    `json:"trail" mapstructure:"trail"`
	Missile      MissileConfig  `json:"missile" mapstructure:"missile"`
	Flag         FlagConfig     `json:"flag" mapstructure:"flag"`
	Lantern      LanternConfig  `json:"lantern" mapstructure:"lantern"`
	Sky          SkyConfig      `json:"sky" mapstructure:"sky"`
	MaxParticles int            `json:"maxParticles" mapstructure:"maxParticles"`
	CityPath     string         `json:"cityPath" mapstructure:"cityPath"`
}

// DefaultConfig returns the authored show parameters.
func DefaultConfig() Config {
	return Config{
		Camera: CameraConfig{
			Enabled:    true,
			DefaultFOV: 45,
			FinalFOV:   75,
			Keyframes: []Keyframe{
				{Position: Vec3{40.3, 1731.3, 6482.7}, Yaw: -91.4, Pitch: -25.6},
				{Position: Vec3{-189.2, 155.6, 5171.6}, Yaw: -93.0, Pitch: 2.6},
				{Position: Vec3{-241.2, 142.7, 3635.2}, Yaw: -121.2, Pitch: 5.5},
				{Position: Vec3{-106.8, 148.5, 2867.0}, Yaw: -44.2, Pitch: 4.3},
				{Position: Vec3{37.3, 78.0, 1148.3}, Yaw: -100.6, Pitch: 14.4},
				{Position: Vec3{-13.2, 152.4, 398.7}, Yaw: -102.2, Pitch: 33.7},
			},
			TransitionTimes: []float64{5, 2, 5, 3, 8},
		},
		Airplane: AirplaneConfig{
			ModelPath:     "models/plane/SR71.obj",
			SpawnTime:     16,
			Height:        8000,
			Speed:         3000,
			Lifetime:      15,
			Direction:     Vec3{1, 0, 0},
			StartPosition: Vec3{-20000, 0, -8000},
			Scale:         Vec3{30, 30, 30},
			WingmanScale:  Vec3{30, 30, 30},
			WingmanOffsets: []Vec3{
				{-600, 0, -600},
				{-1200, 0, -1200},
				{600, 0, -600},
				{1200, 0, -1200},
			},
			CameraTracking: true,
			CameraDistance: 2000,
			CameraHeight:   600,
		},
		Trail: TrailConfig{
			Enabled:          true,
			SpawnRate:        40,
			ParticleLifetime: 3.2,
			StartSize:        60,
			EndSize:          40,
			InitialSpeed:     450,
			SpeedVariance:    120,
			EmissionOffset:   250,
			HorizontalJitter: 60,
			VerticalJitter:   40,
			LateralDrift:     80,
			VerticalDrift:    40,
			Gravity:          150,
			Colors: []Color{
				{1, 0.25, 0.25, 0.92},
				{1, 0.6, 0.1, 0.9},
				{1, 0.95, 0.25, 0.9},
				{0.3, 0.9, 0.4, 0.88},
				{0.25, 0.45, 1, 0.9},
			},
		},
		Missile: MissileConfig{
			ModelPath:        "models/plane/rocket/rocket.obj",
			DropDelay:        6,
			FallSpeed:        700,
			FallAngle:        60,
			Scale:            Vec3{0.08, 0.08, 0.08},
			GroundHeight:     6000,
			RotationSpeed:    180,
			CameraTrackDelay: 2,
			CameraDistance:   200,
			CameraHeight:     50,
			CameraLookAhead:  50,

			ExplosionEnabled:   true,
			ExplosionCount:     420,
			ExplosionSpeed:     Range{550, 1400},
			ExplosionLifetime:  Range{6.1, 8.6},
			ExplosionStartSize: 280,
			ExplosionEndSize:   30,
			ExplosionGravity:   220,
			ExplosionColors: []Color{
				{1, 0.35, 0.35, 1},
				{1, 0.7, 0.2, 1},
				{0.95, 0.95, 0.25, 1},
				{0.4, 0.9, 0.5, 1},
				{0.35, 0.6, 1, 1},
				{0.75, 0.4, 1, 1},
			},
		},
		Flag: FlagConfig{
			Enabled:        true,
			Position:       Vec3{-420, 60, 980},
			Yaw:            -90,
			Width:          120,
			Height:         80,
			ControlPointsU: 8,
			ControlPointsV: 6,
			SegmentsU:      20,
			SegmentsV:      15,
			WaveAmplitude:  20,
			WaveFrequency:  1.5,
			MarkerSize:     8,
			MarkerColor:    Color{1, 0.9, 0.2, 1},
			PoleEnabled:    true,
			PoleHeight:     400,
			PoleRadius:     3,
			PoleBallRadius: 6,
			PoleSegments:   16,
		},
		Lantern: LanternConfig{
			Enabled:          true,
			ModelPath:        "models/kongming/OBJ/kongming.obj",
			PoolSize:         120,
			SpawnCenter:      Vec3{0, 0, -5000},
			SpawnHalfExtents: Vec3{5000, 0, 5000},
			SpawnInterval:    1.1,
			SpawnStartTime:   25,
			SpawnCount:       IntRange{5, 8},
			Lifetime:         Range{20, 50},
			TargetHeight:     Range{4000, 99000},
			Speed:            Range{50, 150},
			Scale:            Vec3{0.25, 0.25, 0.25},
			LightColor:       Color{1, 0.7, 0.4, 1},
			LightIntensity:   25,
			LightRadius:      1500,
		},
		Sky: SkyConfig{
			DayDuration:          15,
			DayToNightTransition: 16,
			NightDuration:        10,
			NightToDayTransition: 10,
		},
		MaxParticles: 4200,
		CityPath:     "models/gugong/ancientCity.obj",
	}
}

const configName = "skycity.cfg.json"

// LoadConfig returns DefaultConfig overlaid with any skycity.cfg.json found
// in configDir. A missing file is not an error; a malformed one is.
func LoadConfig(configDir string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config file: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects parameter combinations the simulation cannot run with.
func (c Config) Validate() error {
	if len(c.Camera.Keyframes) < 2 {
		return fmt.Errorf("camera: need at least 2 keyframes, have %d", len(c.Camera.Keyframes))
	}
	if len(c.Camera.TransitionTimes) != len(c.Camera.Keyframes)-1 {
		return fmt.Errorf("camera: %d keyframes need %d transition times, have %d",
			len(c.Camera.Keyframes), len(c.Camera.Keyframes)-1, len(c.Camera.TransitionTimes))
	}
	if c.Lantern.Enabled && c.Lantern.PoolSize <= 0 {
		return fmt.Errorf("lantern: pool size must be positive, have %d", c.Lantern.PoolSize)
	}
	if c.MaxParticles <= 0 {
		return fmt.Errorf("particles: pool size must be positive, have %d", c.MaxParticles)
	}
	if c.Airplane.Direction.NormalizedOr(Vec3{}) == (Vec3{}) {
		return errors.New("airplane: direction must be a non-zero vector")
	}
	return nil
}
