package cmd

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"time"

	coreConfig "github.com/commentify/commentify/core/config"
	coreDB "github.com/commentify/commentify/core/database"
	settingsApp "github.com/commentify/commentify/core/settings/application"
	domainAutomation "github.com/commentify/commentify/domains/automation"
	domainComment "github.com/commentify/commentify/domains/comment"
	domainProfile "github.com/commentify/commentify/domains/profile"
	domainSubscription "github.com/commentify/commentify/domains/subscription"
	"github.com/commentify/commentify/infrastructure/valkey"
	"github.com/commentify/commentify/pkg/instagram"
	"github.com/commentify/commentify/pkg/runworker"
	"github.com/commentify/commentify/pkg/utils"
	"github.com/commentify/commentify/ui/websocket"
	"github.com/commentify/commentify/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Usecase
	profileUsecase      domainProfile.IProfileUsecase
	commentUsecase      domainComment.ICommentUsecase
	subscriptionUsecase domainSubscription.ISubscriptionUsecase
	automationUsecase   domainAutomation.IAutomationUsecase
	settingsService     *settingsApp.SettingsService

	runPool  *runworker.Pool
	vkClient *valkey.Client
	serverID string

	flagPort      string
	flagDebug     bool
	flagBasicAuth []string
	flagDBURI     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commentify",
	Short: "Social comment automation API",
	Long:  `Backend for the Commentify comment automation dashboard: profile and comment stores, batch automation runs and the run event stream over http.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&flagBasicAuth,
		"basic-auth", "b",
		nil,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagDBURI,
		"db-name", "",
		"",
		`database file path for sqlite or database name for postgres --db-name <string> | example: --db-name="storages/commentify.db"`,
	)
}

func initApp() {
	cfg, err := coreConfig.LoadConfig()
	if err != nil {
		logrus.Fatalln("Failed to load configuration: ", err.Error())
	}

	// Flags win over environment
	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug {
		cfg.App.Debug = true
	}
	if len(flagBasicAuth) > 0 {
		cfg.App.BasicAuth = flagBasicAuth
	}
	if flagDBURI != "" {
		cfg.Database.Name = flagDBURI
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Errorln(err)
	}

	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalln("Failed to connect database: ", err.Error())
	}

	serverID = utils.GetPersistentServerID(cfg.App.ServerID, cfg.Paths.Storages)

	if cfg.Database.ValkeyEnabled {
		vkClient, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Errorf("[APP] Valkey disabled, connection failed: %v", err)
			vkClient = nil
		}
	}

	// Transport is chosen once at startup: direct upstream requests, or the
	// configured relay endpoint.
	var requester instagram.Requester = instagram.NewHTTPRequester()
	if cfg.Instagram.RelayURL != "" {
		logrus.Infof("[APP] Engine requests relayed through %s", cfg.Instagram.RelayURL)
		requester = instagram.NewRelayRequester(cfg.Instagram.RelayURL)
	}
	igClient := instagram.NewClient(instagram.ClientOptions{Requester: requester})

	runPool = runworker.NewPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	settingsService = settingsApp.NewSettingsService(db, cfg.Automation.InterCommentDelay)
	if err := settingsService.EnsureSchema(context.Background()); err != nil {
		logrus.Fatalln("Failed to prepare settings schema: ", err.Error())
	}

	profileUsecase = usecase.NewProfileService(db)
	commentUsecase = usecase.NewCommentService(db)
	subscriptionUsecase = usecase.NewSubscriptionService(db, cfg.Automation.UnlimitedUser)
	automationUsecase = usecase.NewAutomationService(
		profileUsecase,
		commentUsecase,
		subscriptionUsecase,
		usecase.AutomationOptions{
			Client:        igClient,
			Pool:          runPool,
			Notifier:      websocket.RunEventNotifier(),
			Delay:         cfg.Automation.InterCommentDelay,
			DelayProvider: settingsService.AutomationDelay,
			Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		},
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of the worker pool and connections.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if runPool != nil {
		runPool.Stop()
	}
	if vkClient != nil {
		vkClient.Close()
	}
	if coreDB.GlobalDB != nil {
		if sqlDB, err := coreDB.GlobalDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}

// relayRequester serves POST /api/relay. It always talks to the upstream
// host directly; chaining a relay behind another relay loops.
func relayRequester() instagram.Requester {
	return instagram.NewHTTPRequester()
}

// basicAuthAccounts parses the configured <user>:<secret> pairs.
func basicAuthAccounts(pairs []string) map[string]string {
	account := make(map[string]string)
	for _, basicAuth := range pairs {
		ba := strings.Split(basicAuth, ":")
		if len(ba) != 2 {
			logrus.Fatalln("Basic auth is not valid, please this following format <user>:<secret>")
		}
		account[ba[0]] = ba[1]
	}
	return account
}
