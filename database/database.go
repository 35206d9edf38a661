package database

// Database groups the per-collection repositories over a shared record store.
type Database struct {
	projectRepo *ProjectRepo
	contactRepo *ContactRepo
}

// New initializes a new Database struct with each repository using a shared
// RecordStore instance.
func New(store RecordStore) Database {
	return Database{
		projectRepo: NewProjectRepo(store),
		contactRepo: NewContactRepo(store),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}
