package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/database/mongodb"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/export"
	"github.com/vfg2006/realestate-crm-analytics/infrastructure/repository"
	"github.com/vfg2006/realestate-crm-analytics/internal/api"
	"github.com/vfg2006/realestate-crm-analytics/internal/api/handler"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/scheduler"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/authenticating"
	"github.com/vfg2006/realestate-crm-analytics/internal/usecases/reporting"
	"github.com/vfg2006/realestate-crm-analytics/pkg/log"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define formato e nível de log com base na configuração
	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, pinger, closeStore := recordStore(ctx, cfg)

	authenticator := authenticating.NewService(cfg)
	reportService := reporting.NewService(cfg, store)

	reportExportService := scheduler.NewReportExportService(
		reportService,
		export.NewFileWriter(cfg.ReportExport.Dir),
		cfg,
	)

	// Inicia o agendador em background
	if err := reportExportService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de exportação de relatórios")
	} else {
		logrus.Info("Agendador de exportação de relatórios iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reportService,
		authenticator,
		pinger,
		reportExportService,
	)
	if err != nil {
		logrus.Fatal(err)
	}
	server.OnShutdown(closeStore)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger aplica o formato padrão antes da configuração ser lida
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	log.Setup(logrus.InfoLevel.String())
}

// recordStore abre a fonte de registros escolhida em RECORD_STORE_DRIVER
func recordStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, handler.Pinger, func(context.Context) error) {
	switch cfg.RecordStore.Driver {
	case config.RecordStorePostgres:
		conn := pgconn(ctx, cfg.Database)
		closeFn := func(context.Context) error { return conn.Close() }
		return repository.NewPostgresRecordStore(conn, cfg.Database.Table), conn, closeFn
	default:
		conn := mongoconn(ctx, cfg.Mongo)
		return repository.NewMongoRecordStore(conn), conn, conn.Close
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// mongoconn cria a conexão com o banco de documentos do CRM
func mongoconn(ctx context.Context, mongoConfig config.Mongo) *mongodb.Connection {
	conn, err := mongodb.NewConnection(ctx, mongoConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao MongoDB")
	}

	logrus.WithField("database", mongoConfig.Database).Info("Conexão com MongoDB estabelecida com sucesso")
	return conn
}
