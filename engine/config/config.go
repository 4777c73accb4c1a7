package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. DYSON_WAVE_CONCURRENCYCAP
const EnvPrefix = "DYSON"

// Config holds every tunable of the simulation
type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	Seed     int64  `mapstructure:"seed"`

	Simulation Simulation `mapstructure:"simulation"`
	Arena      Arena      `mapstructure:"arena"`
	Player     Player     `mapstructure:"player"`
	Weapon     Weapon     `mapstructure:"weapon"`
	Structure  Structure  `mapstructure:"structure"`
	Enemy      Enemy      `mapstructure:"enemy"`
	Beam       Beam       `mapstructure:"beam"`
	Wave       Wave       `mapstructure:"wave"`
}

type Simulation struct {
	MaxDeltaTime float64 `mapstructure:"maxDeltaTime"`
}

// Arena bounds the player radially around the structure at the origin
type Arena struct {
	MinDistance float64 `mapstructure:"minDistance"`
	MaxDistance float64 `mapstructure:"maxDistance"`
}

type Player struct {
	MaxHealth       float64 `mapstructure:"maxHealth"`
	StartDistance   float64 `mapstructure:"startDistance"`
	Acceleration    float64 `mapstructure:"acceleration"`
	MaxSpeed        float64 `mapstructure:"maxSpeed"`
	BoostMultiplier float64 `mapstructure:"boostMultiplier"`
	Friction        float64 `mapstructure:"friction"`
	VelocityEpsilon float64 `mapstructure:"velocityEpsilon"`
	LookSensitivity float64 `mapstructure:"lookSensitivity"`
	ColliderRadius  float64 `mapstructure:"colliderRadius"`
}

// Weapon is the player's discrete laser
type Weapon struct {
	Cooldown           float64 `mapstructure:"cooldown"`
	Damage             float64 `mapstructure:"damage"`
	ProjectileSpeed    float64 `mapstructure:"projectileSpeed"`
	Lifetime           float64 `mapstructure:"lifetime"`
	MaxRange           float64 `mapstructure:"maxRange"`
	HitRadius          float64 `mapstructure:"hitRadius"`
	Spread             float64 `mapstructure:"spread"`
	ProjectilesPerShot int     `mapstructure:"projectilesPerShot"`
	MuzzleOffset       float64 `mapstructure:"muzzleOffset"`
}

type Structure struct {
	MaxHealth  float64 `mapstructure:"maxHealth"`
	MaxShield  float64 `mapstructure:"maxShield"`
	RegenDelay float64 `mapstructure:"regenDelay"`
	RegenRate  float64 `mapstructure:"regenRate"`
	Radius     float64 `mapstructure:"radius"`
}

type Enemy struct {
	MaxHealth          float64 `mapstructure:"maxHealth"`
	Speed              float64 `mapstructure:"speed"`
	AttackDistance     float64 `mapstructure:"attackDistance"`
	FiringRange        float64 `mapstructure:"firingRange"`
	FireInterval       float64 `mapstructure:"fireInterval"`
	ShotDamage         float64 `mapstructure:"shotDamage"`
	ShotSpeed          float64 `mapstructure:"shotSpeed"`
	ShotLifetime       float64 `mapstructure:"shotLifetime"`
	ContactRadius      float64 `mapstructure:"contactRadius"`
	CrashDamage        float64 `mapstructure:"crashDamage"`
	KilledExplosion    float64 `mapstructure:"killedExplosion"`
	CrashExplosion     float64 `mapstructure:"crashExplosion"`
	SpawnRadius        float64 `mapstructure:"spawnRadius"`
	ColliderRadius     float64 `mapstructure:"colliderRadius"`
	ScoreValue         int     `mapstructure:"scoreValue"`
	SiegeDriftSpeed    float64 `mapstructure:"siegeDriftSpeed"`
	SeparationRadius   float64 `mapstructure:"separationRadius"`
	PlayerTargetChance float64 `mapstructure:"playerTargetChance"`
}

// Beam is the continuous siege weapon. The multipliers scale damage
// against shields and hull separately.
type Beam struct {
	TickInterval     float64 `mapstructure:"tickInterval"`
	DamagePerTick    float64 `mapstructure:"damagePerTick"`
	ShieldMultiplier float64 `mapstructure:"shieldMultiplier"`
	HullMultiplier   float64 `mapstructure:"hullMultiplier"`
	Segments         int     `mapstructure:"segments"`
	Jitter           float64 `mapstructure:"jitter"`
}

type Wave struct {
	BaseEnemies            int     `mapstructure:"baseEnemies"`
	EnemiesPerWave         int     `mapstructure:"enemiesPerWave"`
	ConcurrencyCap         int     `mapstructure:"concurrencyCap"`
	CooldownDuration       float64 `mapstructure:"cooldownDuration"`
	InitialSpawnInterval   float64 `mapstructure:"initialSpawnInterval"`
	MinSpawnInterval       float64 `mapstructure:"minSpawnInterval"`
	SpawnIntervalDecrement float64 `mapstructure:"spawnIntervalDecrement"`
}

// Default returns the stock tuning
func Default() Config {
	return Config{
		LogLevel: "info",
		Seed:     1,
		Simulation: Simulation{
			MaxDeltaTime: 0.1,
		},
		Arena: Arena{
			MinDistance: 30,
			MaxDistance: 400,
		},
		Player: Player{
			MaxHealth:       100,
			StartDistance:   80,
			Acceleration:    120,
			MaxSpeed:        60,
			BoostMultiplier: 2,
			Friction:        0.92,
			VelocityEpsilon: 0.01,
			LookSensitivity: 0.003,
			ColliderRadius:  3,
		},
		Weapon: Weapon{
			Cooldown:           0.15,
			Damage:             25,
			ProjectileSpeed:    300,
			Lifetime:           2,
			MaxRange:           600,
			HitRadius:          2,
			Spread:             0.02,
			ProjectilesPerShot: 2,
			MuzzleOffset:       1.5,
		},
		Structure: Structure{
			MaxHealth:  1000,
			MaxShield:  500,
			RegenDelay: 3,
			RegenRate:  25,
			Radius:     20,
		},
		Enemy: Enemy{
			MaxHealth:          50,
			Speed:              20,
			AttackDistance:     60,
			FiringRange:        150,
			FireInterval:       2,
			ShotDamage:         5,
			ShotSpeed:          120,
			ShotLifetime:       3,
			ContactRadius:      22,
			CrashDamage:        50,
			KilledExplosion:    1.0,
			CrashExplosion:     0.6,
			SpawnRadius:        350,
			ColliderRadius:     4,
			ScoreValue:         100,
			SiegeDriftSpeed:    0,
			SeparationRadius:   10,
			PlayerTargetChance: 0.2,
		},
		Beam: Beam{
			TickInterval:     0.1,
			DamagePerTick:    2,
			ShieldMultiplier: 1.5,
			HullMultiplier:   1.0,
			Segments:         8,
			Jitter:           2,
		},
		Wave: Wave{
			BaseEnemies:            5,
			EnemiesPerWave:         3,
			ConcurrencyCap:         5,
			CooldownDuration:       3,
			InitialSpawnInterval:   2,
			MinSpawnInterval:       0.5,
			SpawnIntervalDecrement: 0.2,
		},
	}
}

// Load reads configuration from an optional file and the environment
// on top of Default. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("seed", d.Seed)

	v.SetDefault("simulation.maxDeltaTime", d.Simulation.MaxDeltaTime)

	v.SetDefault("arena.minDistance", d.Arena.MinDistance)
	v.SetDefault("arena.maxDistance", d.Arena.MaxDistance)

	v.SetDefault("player.maxHealth", d.Player.MaxHealth)
	v.SetDefault("player.startDistance", d.Player.StartDistance)
	v.SetDefault("player.acceleration", d.Player.Acceleration)
	v.SetDefault("player.maxSpeed", d.Player.MaxSpeed)
	v.SetDefault("player.boostMultiplier", d.Player.BoostMultiplier)
	v.SetDefault("player.friction", d.Player.Friction)
	v.SetDefault("player.velocityEpsilon", d.Player.VelocityEpsilon)
	v.SetDefault("player.lookSensitivity", d.Player.LookSensitivity)
	v.SetDefault("player.colliderRadius", d.Player.ColliderRadius)

	v.SetDefault("weapon.cooldown", d.Weapon.Cooldown)
	v.SetDefault("weapon.damage", d.Weapon.Damage)
	v.SetDefault("weapon.projectileSpeed", d.Weapon.ProjectileSpeed)
	v.SetDefault("weapon.lifetime", d.Weapon.Lifetime)
	v.SetDefault("weapon.maxRange", d.Weapon.MaxRange)
	v.SetDefault("weapon.hitRadius", d.Weapon.HitRadius)
	v.SetDefault("weapon.spread", d.Weapon.Spread)
	v.SetDefault("weapon.projectilesPerShot", d.Weapon.ProjectilesPerShot)
	v.SetDefault("weapon.muzzleOffset", d.Weapon.MuzzleOffset)

	v.SetDefault("structure.maxHealth", d.Structure.MaxHealth)
	v.SetDefault("structure.maxShield", d.Structure.MaxShield)
	v.SetDefault("structure.regenDelay", d.Structure.RegenDelay)
	v.SetDefault("structure.regenRate", d.Structure.RegenRate)
	v.SetDefault("structure.radius", d.Structure.Radius)

	v.SetDefault("enemy.maxHealth", d.Enemy.MaxHealth)
	v.SetDefault("enemy.speed", d.Enemy.Speed)
	v.SetDefault("enemy.attackDistance", d.Enemy.AttackDistance)
	v.SetDefault("enemy.firingRange", d.Enemy.FiringRange)
	v.SetDefault("enemy.fireInterval", d.Enemy.FireInterval)
	v.SetDefault("enemy.shotDamage", d.Enemy.ShotDamage)
	v.SetDefault("enemy.shotSpeed", d.Enemy.ShotSpeed)
	v.SetDefault("enemy.shotLifetime", d.Enemy.ShotLifetime)
	v.SetDefault("enemy.contactRadius", d.Enemy.ContactRadius)
	v.SetDefault("enemy.crashDamage", d.Enemy.CrashDamage)
	v.SetDefault("enemy.killedExplosion", d.Enemy.KilledExplosion)
	v.SetDefault("enemy.crashExplosion", d.Enemy.CrashExplosion)
	v.SetDefault("enemy.spawnRadius", d.Enemy.SpawnRadius)
	v.SetDefault("enemy.colliderRadius", d.Enemy.ColliderRadius)
	v.SetDefault("enemy.scoreValue", d.Enemy.ScoreValue)
	v.SetDefault("enemy.siegeDriftSpeed", d.Enemy.SiegeDriftSpeed)
	v.SetDefault("enemy.separationRadius", d.Enemy.SeparationRadius)
	v.SetDefault("enemy.playerTargetChance", d.Enemy.PlayerTargetChance)

	v.SetDefault("beam.tickInterval", d.Beam.TickInterval)
	v.SetDefault("beam.damagePerTick", d.Beam.DamagePerTick)
	v.SetDefault("beam.shieldMultiplier", d.Beam.ShieldMultiplier)
	v.SetDefault("beam.hullMultiplier", d.Beam.HullMultiplier)
	v.SetDefault("beam.segments", d.Beam.Segments)
	v.SetDefault("beam.jitter", d.Beam.Jitter)

	v.SetDefault("wave.baseEnemies", d.Wave.BaseEnemies)
	v.SetDefault("wave.enemiesPerWave", d.Wave.EnemiesPerWave)
	v.SetDefault("wave.concurrencyCap", d.Wave.ConcurrencyCap)
	v.SetDefault("wave.cooldownDuration", d.Wave.CooldownDuration)
	v.SetDefault("wave.initialSpawnInterval", d.Wave.InitialSpawnInterval)
	v.SetDefault("wave.minSpawnInterval", d.Wave.MinSpawnInterval)
	v.SetDefault("wave.spawnIntervalDecrement", d.Wave.SpawnIntervalDecrement)
}

// Validate rejects tunings the simulation cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.Simulation.MaxDeltaTime <= 0 {
		errs = append(errs, errors.New("simulation.maxDeltaTime must be positive"))
	}
	if c.Arena.MinDistance < 0 || c.Arena.MaxDistance <= c.Arena.MinDistance {
		errs = append(errs, fmt.Errorf("arena bounds [%v, %v] are invalid", c.Arena.MinDistance, c.Arena.MaxDistance))
	}
	if c.Player.Friction < 0 || c.Player.Friction > 1 {
		errs = append(errs, errors.New("player.friction must be within [0, 1]"))
	}
	if c.Weapon.ProjectilesPerShot < 1 {
		errs = append(errs, errors.New("weapon.projectilesPerShot must be at least 1"))
	}
	if c.Beam.TickInterval <= 0 {
		errs = append(errs, errors.New("beam.tickInterval must be positive"))
	}
	if c.Beam.ShieldMultiplier <= 0 || c.Beam.HullMultiplier < 0 {
		errs = append(errs, errors.New("beam multipliers must be positive"))
	}
	if c.Beam.Segments < 1 {
		errs = append(errs, errors.New("beam.segments must be at least 1"))
	}
	if c.Wave.ConcurrencyCap < 1 {
		errs = append(errs, errors.New("wave.concurrencyCap must be at least 1"))
	}
	if c.Wave.BaseEnemies < 1 || c.Wave.EnemiesPerWave < 0 {
		errs = append(errs, errors.New("wave quotas must be positive"))
	}
	if c.Wave.MinSpawnInterval <= 0 || c.Wave.InitialSpawnInterval < c.Wave.MinSpawnInterval {
		errs = append(errs, errors.New("wave spawn intervals are invalid"))
	}
	if c.Enemy.ContactRadius >= c.Enemy.AttackDistance && c.Enemy.SiegeDriftSpeed == 0 {
		// Siege would start inside the crash radius
		errs = append(errs, errors.New("enemy.contactRadius must be below enemy.attackDistance"))
	}
	return errors.Join(errs...)
}
