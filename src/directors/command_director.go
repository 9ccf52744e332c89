package directors

import (
	"fmt"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"mergington/src/memdb"
	"mergington/src/settings"
)

/*
	CommandDirector parses and dispatches the line commands of the local
	console. It stands in for the HTTP routers of the full API, so every
	command maps onto one service call:

		ACTIVITIES [day]
		DAYS
		SIGNUP <activity> <email>
		UNREGISTER <activity> <email>
		LOGIN <username> <password>
		DUMP
		HELP
*/

func CommandDirector(store *memdb.Store, serviceManager *ServiceManager, command string, logger *zap.SugaredLogger) (string, error) {
	command = strings.TrimSpace(command)
	command = strings.TrimSuffix(command, ";") // Remove trailing semicolon if present
	commandParts := strings.Fields(command)
	if len(commandParts) == 0 {
		return "", nil
	}

	switch strings.ToLower(commandParts[0]) {
	case "activities":
		day := ""
		if len(commandParts) > 1 {
			day = trimQuotes(commandParts[1])
		}
		activities, err := serviceManager.ActivityService.List(day, "", "")
		if err != nil {
			return "", fmt.Errorf("error listing activities: %w", err)
		}

		var out strings.Builder
		fmt.Fprintf(&out, "%d activities\n", len(activities))
		for _, activity := range activities {
			fmt.Fprintf(&out, "  %v (%v) - %d signed up\n",
				activity["_id"], activity["schedule"], participantCount(activity))
		}
		return out.String(), nil

	case "days":
		days, err := serviceManager.ActivityService.Days()
		if err != nil {
			return "", fmt.Errorf("error listing days: %w", err)
		}
		return strings.Join(days, ", ") + "\n", nil

	case "signup", "unregister":
		if len(commandParts) < 3 {
			return "", fmt.Errorf("%s requires '<activity> <email>'", strings.ToUpper(commandParts[0]))
		}
		// The email is the last token; everything between is the activity
		// name, which may contain spaces.
		email := commandParts[len(commandParts)-1]
		activityName := trimQuotes(strings.Join(commandParts[1:len(commandParts)-1], " "))

		if strings.EqualFold(commandParts[0], "signup") {
			if err := serviceManager.ActivityService.Signup(activityName, email); err != nil {
				return "", err
			}
			return fmt.Sprintf("Signed up %s for %s\n", email, activityName), nil
		}
		if err := serviceManager.ActivityService.Unregister(activityName, email); err != nil {
			return "", err
		}
		return fmt.Sprintf("Unregistered %s from %s\n", email, activityName), nil

	case "login":
		if len(commandParts) != 3 {
			return "", fmt.Errorf("LOGIN requires '<username> <password>'")
		}
		account, err := serviceManager.TeacherService.Login(commandParts[1], commandParts[2])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Welcome, %v (%v)\n", account["display_name"], account["role"]), nil

	case "dump":
		args := settings.GetSettings()
		file, err := os.Create(args.DumpFile)
		if err != nil {
			return "", fmt.Errorf("error creating dump file: %w", err)
		}
		defer file.Close()

		if err := store.Dump(file); err != nil {
			return "", fmt.Errorf("error dumping store: %w", err)
		}
		logger.Infof("store dumped to %s", args.DumpFile)
		return fmt.Sprintf("Dumped store to %s\n", args.DumpFile), nil

	case "help":
		return "Commands: ACTIVITIES [day], DAYS, SIGNUP <activity> <email>, " +
			"UNREGISTER <activity> <email>, LOGIN <username> <password>, DUMP, QUIT\n", nil

	default:
		return "", fmt.Errorf("unknown command %q, try HELP", commandParts[0])
	}
}

func trimQuotes(s string) string {
	s = strings.Trim(s, "\"'")
	s = strings.ReplaceAll(s, "”", "") // A very odd type of quote that can appear in text
	return s
}

func participantCount(activity bson.M) int {
	if seq, ok := activity["participants"].(bson.A); ok {
		return len(seq)
	}
	return 0
}
