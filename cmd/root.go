package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/compat"
	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/dataset"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/logger"
	"github.com/spigell/roomeo/internal/store"
)

const (
	app = "roomeo"

	defaultStoreFile = ".roomeo/saved.json"
)

type Config struct {
	Data           dataset.Files            `mapstructure:"data"`
	StoreFile      string                   `mapstructure:"store-file"`
	TranscriptFile string                   `mapstructure:"transcript-file"`
	Rooms          *RoomsConfig             `mapstructure:"rooms"`
	Roommates      *RoommatesConfig         `mapstructure:"roommates"`
	Viewer         *housing.RoommateProfile `mapstructure:"viewer"`
	Weights        *compat.Weights          `mapstructure:"weights"`
	AI             *AIConfig                `mapstructure:"ai"`
}

// RoomsConfig holds the default room search criteria.
type RoomsConfig struct {
	Search        string    `mapstructure:"search"`
	PriceRange    []float64 `mapstructure:"price-range"`
	MaxDistance   *float64  `mapstructure:"max-distance"`
	RoomTypes     []string  `mapstructure:"room-types"`
	Facilities    []string  `mapstructure:"facilities"`
	Bedrooms      string    `mapstructure:"bedrooms"`
	Bathrooms     string    `mapstructure:"bathrooms"`
	LeaseDuration string    `mapstructure:"lease-duration"`
	AvailableNow  bool      `mapstructure:"available-now"`
	Keyword       string    `mapstructure:"keyword"`
	SortBy        string    `mapstructure:"sort-by"`
}

// RoommatesConfig holds the default roommate finder criteria.
type RoommatesConfig struct {
	Search            string    `mapstructure:"search"`
	Gender            string    `mapstructure:"gender"`
	Faculty           string    `mapstructure:"faculty"`
	Year              string    `mapstructure:"year"`
	Cleanliness       string    `mapstructure:"cleanliness"`
	SmokingPreference string    `mapstructure:"smoking-preference"`
	SleepSchedule     string    `mapstructure:"sleep-schedule"`
	BudgetRange       []float64 `mapstructure:"budget-range"`
	Lifestyle         []string  `mapstructure:"lifestyle"`
	SortBy            string    `mapstructure:"sort-by"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

func (c *RoomsConfig) Criteria() criteria.ListingCriteria {
	if c == nil {
		return criteria.ListingCriteria{}
	}
	return criteria.ListingCriteria{
		Search:        c.Search,
		PriceRange:    criteria.NewRange(c.PriceRange...),
		MaxDistance:   c.MaxDistance,
		RoomTypes:     c.RoomTypes,
		Facilities:    c.Facilities,
		Bedrooms:      criteria.ParseCount(c.Bedrooms),
		Bathrooms:     criteria.ParseCount(c.Bathrooms),
		LeaseDuration: criteria.ParseCount(c.LeaseDuration),
		AvailableNow:  c.AvailableNow,
		Keyword:       c.Keyword,
		SortBy:        criteria.ParseSortBy(c.SortBy),
	}
}

func (c *RoommatesConfig) Criteria() criteria.RoommateCriteria {
	if c == nil {
		return criteria.RoommateCriteria{}
	}
	return criteria.RoommateCriteria{
		Search:            c.Search,
		Gender:            c.Gender,
		Faculty:           c.Faculty,
		Year:              criteria.ParseCount(c.Year),
		Cleanliness:       c.Cleanliness,
		SmokingPreference: c.SmokingPreference,
		SleepSchedule:     c.SleepSchedule,
		BudgetRange:       criteria.NewRange(c.BudgetRange...),
		Lifestyle:         c.Lifestyle,
		SortBy:            criteria.ParseSortBy(c.SortBy),
	}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "roomeo helps students find rooms and roommates near campus",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is roomeo.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("store-file", defaultStoreFile)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix("ROOMEO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// session is what every command needs: the config, a logger and the records.
type session struct {
	config *Config
	logger *zap.Logger
	data   *dataset.Data
}

func newSession(cmd *cobra.Command) *session {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log = logger.WithFields(log, zap.String("command", cmd.Name()))
	log.Debug("starting", zap.String("version", version), zap.String("config_file", viper.ConfigFileUsed()))

	data, err := dataset.Open(config.Data)
	if err != nil {
		log.Fatal("loading records", zap.Error(err),
			zap.String("listings_file", config.Data.Listings),
			zap.String("roommates_file", config.Data.Roommates),
		)
	}

	log.Debug("records loaded",
		zap.Int("listings", data.Listings.Len()),
		zap.Int("roommates", data.Roommates.Len()),
	)

	return &session{config: config, logger: log, data: data}
}

func (s *session) savedStore() *store.File {
	path := strings.TrimSpace(s.config.StoreFile)
	if path == "" {
		path = defaultStoreFile
	}
	return store.NewFile(path)
}

func (s *session) scorer() *compat.Scorer {
	if s.config.Weights == nil || s.config.Weights.IsZero() {
		return compat.Default()
	}
	return compat.NewScorer(*s.config.Weights)
}

// viewer resolves the profile the roommate scores are computed for: an id or
// name from the records, or else the profile from the config.
func (s *session) viewer(ref string) (*housing.RoommateProfile, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s.config.Viewer, nil
	}
	if p := s.data.Roommates.FindByID(ref); p != nil {
		return p, nil
	}
	if p := s.data.Roommates.FindByName(ref); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("no roommate profile with id or name %q", ref)
}

var fatalf = log.Fatalf
