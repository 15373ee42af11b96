package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/inference"
	"github.com/go-go-golems/arbor/pkg/web"
)

const treeEventsTopic = "tree-events"

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the conversation tree web server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":5001", "HTTP listen address")
	cmd.Flags().Bool("print-events", false, "Dump raw tree events to stdout")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	printEvents, _ := cmd.Flags().GetBool("print-events")

	settings := settingsFromViper()
	engine, err := inference.NewEngineFromSettings(settings)
	if err != nil {
		return err
	}

	router, err := events.NewEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		_ = router.Close()
	}()

	publisher := events.NewPublisherManager()
	publisher.SubscribePublisher(treeEventsTopic, router.Publisher)
	router.AddHandler("log-tree-events", treeEventsTopic, router.LogTreeEvents)
	if printEvents {
		router.AddHandler("dump-tree-events", treeEventsTopic, router.DumpRawEvents)
	}

	manager, err := newManager(engine, settings, publisher)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := engine.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("generation backend is not responding, chat requests will fail")
	} else {
		log.Info().Str("model", settings.Model).Msg("generation backend is connected and ready")
	}

	server := web.NewServer(manager, engine, settings)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return router.Run(groupCtx)
	})
	group.Go(func() error {
		defer cancel()
		<-router.Running()
		return server.Run(groupCtx, addr)
	})

	return group.Wait()
}
