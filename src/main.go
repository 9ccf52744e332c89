package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mergington/src/directors"
	"mergington/src/memdb"
	"mergington/src/seed"
	"mergington/src/settings"
)

// printUsage prints helpful usage information
func printUsage() {
	fmt.Println("Mergington High School activity store console")
	fmt.Println("\nUsage:")
	fmt.Println("  mergington [options]")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()

	fmt.Println("\nExamples:")
	fmt.Println("  mergington --debug")
	fmt.Println("  mergington --dumpfile=snapshot.bson")
}

func main() {
	// Get the global settings instance
	args := settings.GetSettings()

	// Define command line flags that map to the Arguments struct
	flag.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&args.Debug, "debug", false, "Enable debug mode")
	flag.StringVar(&args.DumpFile, "dumpfile", "store.dump", "Path for DUMP command snapshots")
	flag.BoolVar(&args.SeedOnStart, "seed", true, "Seed the store with initial data on startup")
	flag.Usage = printUsage

	// Parse the command line
	flag.Parse()

	var logger *zap.Logger
	var err error

	if args.Debug {
		// Development configuration with more verbose output
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	} else {
		// Production configuration
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create a sugared logger for easier API
	sugar := logger.Sugar()

	// Replace standard log with zap
	zap.ReplaceGlobals(logger)

	// Create the store and seed it
	store := memdb.NewStore(sugar)
	if args.SeedOnStart {
		data, err := seed.Data()
		if err != nil {
			sugar.Fatalf("Failed to build seed data: %v", err)
		}
		if err := store.Seed(data); err != nil {
			sugar.Fatalf("Failed to seed store: %v", err)
		}
	}

	// Create the services
	activityService := directors.NewActivityService(store, args, sugar)
	teacherService := directors.NewTeacherService(store, args, sugar)

	// Initialize the singleton
	serviceManager := directors.InitServiceManager(activityService, teacherService, sugar)

	// Handle Ctrl-C like a QUIT command
	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdownSignal
		fmt.Println("\nShutting down")
		os.Exit(0)
	}()

	fmt.Println("Mergington activity store ready. Type HELP for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		if isQuit(line) {
			break
		}

		output, err := directors.CommandDirector(store, serviceManager, line, sugar)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else if output != "" {
			fmt.Print(output)
		}
		fmt.Print("> ")
	}

	fmt.Println("Goodbye")
}

func isQuit(line string) bool {
	switch line {
	case "quit", "QUIT", "exit", "EXIT":
		return true
	}
	return false
}
