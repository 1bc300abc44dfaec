// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/subtracker/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Everything here is built once in ConnectDB and shared read-only.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Mailer is nil when no mail account is configured.
	Mailer *mailer.Transport
}
