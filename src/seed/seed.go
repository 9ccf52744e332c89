package seed

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"mergington/src/auth"
)

// Collection names used by the registration API.
const (
	ActivitiesCollection = "activities"
	TeachersCollection   = "teachers"
)

// Data returns the seed documents for every collection, keyed by collection
// name. Teacher passwords are hashed at build time, so the documents never
// carry plaintext.
func Data() (map[string][]bson.M, error) {
	teachers, err := Teachers()
	if err != nil {
		return nil, err
	}
	return map[string][]bson.M{
		ActivitiesCollection: Activities(),
		TeachersCollection:   teachers,
	}, nil
}

// Activities returns the initial activity documents. The activity name is
// the _id.
func Activities() []bson.M {
	return []bson.M{
		activity("Chess Club",
			"Learn strategies and compete in chess tournaments",
			"Mondays and Fridays, 3:15 PM - 4:45 PM",
			[]string{"Monday", "Friday"}, "15:15", "16:45",
			12, "michael@mergington.edu", "daniel@mergington.edu"),
		activity("Programming Class",
			"Learn programming fundamentals and build software projects",
			"Tuesdays and Thursdays, 7:00 AM - 8:00 AM",
			[]string{"Tuesday", "Thursday"}, "07:00", "08:00",
			20, "emma@mergington.edu", "sophia@mergington.edu"),
		activity("Morning Fitness",
			"Early morning physical training and exercises",
			"Mondays, Wednesdays, Fridays, 6:30 AM - 7:45 AM",
			[]string{"Monday", "Wednesday", "Friday"}, "06:30", "07:45",
			30, "john@mergington.edu", "olivia@mergington.edu"),
		activity("Soccer Team",
			"Join the school soccer team and compete in matches",
			"Tuesdays and Thursdays, 3:30 PM - 5:30 PM",
			[]string{"Tuesday", "Thursday"}, "15:30", "17:30",
			22, "liam@mergington.edu", "noah@mergington.edu"),
		activity("Basketball Team",
			"Practice and compete in basketball tournaments",
			"Wednesdays and Fridays, 3:15 PM - 5:00 PM",
			[]string{"Wednesday", "Friday"}, "15:15", "17:00",
			15, "ava@mergington.edu", "mia@mergington.edu"),
		activity("Art Club",
			"Explore various art techniques and create masterpieces",
			"Thursdays, 3:15 PM - 5:00 PM",
			[]string{"Thursday"}, "15:15", "17:00",
			15, "amelia@mergington.edu", "harper@mergington.edu"),
		activity("Drama Club",
			"Act, direct, and produce plays and performances",
			"Mondays and Wednesdays, 3:30 PM - 5:30 PM",
			[]string{"Monday", "Wednesday"}, "15:30", "17:30",
			20, "ella@mergington.edu", "scarlett@mergington.edu"),
		activity("Math Club",
			"Solve challenging problems and prepare for math competitions",
			"Tuesdays, 7:15 AM - 8:00 AM",
			[]string{"Tuesday"}, "07:15", "08:00",
			10, "james@mergington.edu", "benjamin@mergington.edu"),
		activity("Debate Team",
			"Develop public speaking and argumentation skills",
			"Fridays, 3:30 PM - 5:30 PM",
			[]string{"Friday"}, "15:30", "17:30",
			12, "charlotte@mergington.edu", "amelia@mergington.edu"),
		activity("Weekend Robotics Workshop",
			"Build and program robots in our state-of-the-art workshop",
			"Saturdays, 10:00 AM - 2:00 PM",
			[]string{"Saturday"}, "10:00", "14:00",
			15, "ethan@mergington.edu", "oliver@mergington.edu"),
		activity("Science Olympiad",
			"Weekend science competition preparation for regional and state events",
			"Saturdays, 1:00 PM - 4:00 PM",
			[]string{"Saturday"}, "13:00", "16:00",
			18, "isabella@mergington.edu", "lucas@mergington.edu"),
		activity("Sunday Chess Tournament",
			"Weekly tournament for serious chess players with rankings",
			"Sundays, 2:00 PM - 5:00 PM",
			[]string{"Sunday"}, "14:00", "17:00",
			16, "william@mergington.edu", "jacob@mergington.edu"),
	}
}

// Teachers returns the initial teacher and admin accounts with freshly
// hashed passwords. The username is the _id.
func Teachers() ([]bson.M, error) {
	accounts := []struct {
		username    string
		displayName string
		password    string
		role        string
	}{
		{"mrodriguez", "Ms. Rodriguez", "art123", "teacher"},
		{"mchen", "Mr. Chen", "chess456", "teacher"},
		{"principal", "Principal Martinez", "admin789", "admin"},
	}

	docs := make([]bson.M, 0, len(accounts))
	for _, account := range accounts {
		hashed, err := auth.HashPassword(account.password)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", account.username, err)
		}
		docs = append(docs, bson.M{
			"_id":          account.username,
			"username":     account.username,
			"display_name": account.displayName,
			"password":     hashed,
			"role":         account.role,
		})
	}
	return docs, nil
}

func activity(name, description, schedule string, days []string, startTime, endTime string, maxParticipants int, participants ...string) bson.M {
	enrolled := make(bson.A, len(participants))
	for i, p := range participants {
		enrolled[i] = p
	}
	return bson.M{
		"_id":         name,
		"description": description,
		"schedule":    schedule,
		"schedule_details": bson.M{
			"days":       days,
			"start_time": startTime,
			"end_time":   endTime,
		},
		"max_participants": maxParticipants,
		"participants":     enrolled,
	}
}
