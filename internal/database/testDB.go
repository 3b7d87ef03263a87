package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "jobtrust-backend/internal/model"
	"jobtrust-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & fixtures
var (
	TestAdminUser      m.User
	TestUserFree       m.User
	TestUserPro        m.User
	TestUserEnterprise m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job postings
	TestPosting1 m.JobPosting
	TestPosting2 m.JobPosting
	TestPosting3 m.JobPosting

	// Exported seeded applications:
	// linked has a posting back-link, the two URL-only ones share one
	// external URL and the empty one carries neither posting nor URL.
	TestAppLinked   m.JobApplication
	TestAppURLOnly1 m.JobApplication
	TestAppURLOnly2 m.JobApplication
	TestAppEmpty    m.JobApplication

	// TestSharedJobURL is the external URL both URL-only applications track.
	TestSharedJobURL = "https://careers.example.com/jobs/4711"
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample users, postings and applications
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, job postings and applications if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got create during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	userSpecs := []struct {
		username  string
		email     string
		role      string
		tier      string
		firstName string
		lastName  string
		verified  bool
	}{
		{"free_user", "free@example.com", m.RoleUser, m.TierFree, "Alice", "Nguyen", true},
		{"pro_user", "pro@example.com", m.RoleUser, m.TierPro, "Bob", "Somsak", true},
		{"enterprise_user", "ent@example.com", m.RoleUser, m.TierEnterprise, "Carol", "", false},
		{"admin_user", "admin@example.com", m.RoleAdmin, m.TierFree, "Dana", "Admin", true},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			ID:              uuid.New(),
			Username:        s.username,
			Email:           &email,
			Password:        hashedPwd,
			Role:            s.role,
			Tier:            s.tier,
			FirstName:       s.firstName,
			LastName:        s.lastName,
			IsEmailVerified: s.verified,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// Map created users to exported variables
	for _, u := range users {
		switch u.Username {
		case "free_user":
			TestUserFree = u
		case "pro_user":
			TestUserPro = u
		case "enterprise_user":
			TestUserEnterprise = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	// Seed job postings (only if none exist yet)
	var postingCount int64
	if err := db.Model(&m.JobPosting{}).Count(&postingCount).Error; err != nil {
		return err
	}
	if postingCount == 0 {
		postings := []m.JobPosting{
			{
				EditableJobPostingInfo: m.EditableJobPostingInfo{
					Title:    "Backend Engineer",
					Company:  "TechNova",
					Location: "Bangkok (Hybrid)",
					Country:  "TH",
					URL:      "https://technova.example.com/careers/backend",
				},
				Source:            m.SourceScraper,
				Status:            m.StatusApproved,
				AuthenticityScore: m.NeutralScore,
				TrustBadges:       []string{},
			},
			{
				EditableJobPostingInfo: m.EditableJobPostingInfo{
					Title:    "Data Analyst",
					Company:  "DataForge",
					Location: "Remote",
					Country:  "US",
					URL:      "https://dataforge.example.com/jobs/42",
				},
				Source:            m.SourceScraper,
				Status:            m.StatusApproved,
				AuthenticityScore: m.NeutralScore,
				TrustBadges:       []string{},
			},
			{
				EditableJobPostingInfo: m.EditableJobPostingInfo{
					Title:    "Crypto Payout Agent",
					Company:  "QuickCash Ltd",
					Location: "Remote",
					Country:  "US",
					URL:      "https://quickcash.example.com/hiring",
				},
				Source:            m.SourceUser,
				Status:            m.StatusApproved,
				AuthenticityScore: m.NeutralScore,
				TrustBadges:       []string{},
			},
		}

		if err := db.Create(&postings).Error; err != nil {
			return err
		}
		TestPosting1 = postings[0]
		TestPosting2 = postings[1]
		TestPosting3 = postings[2]
	}

	// Seed applications (only if none exist yet)
	var appCount int64
	if err := db.Model(&m.JobApplication{}).Count(&appCount).Error; err != nil {
		return err
	}
	if appCount == 0 {
		sharedURL := TestSharedJobURL
		apps := []m.JobApplication{
			{
				UserID:       TestUserFree.ID,
				JobPostingID: &TestPosting1.ID,
				JobTitle:     TestPosting1.Title,
				CompanyName:  TestPosting1.Company,
				JobLocation:  TestPosting1.Location,
			},
			{
				UserID:      TestUserFree.ID,
				JobURL:      &sharedURL,
				JobTitle:    "Platform Engineer",
				CompanyName: "Example Careers",
				JobLocation: "Remote",
			},
			{
				UserID:      TestUserPro.ID,
				JobURL:      &sharedURL,
				JobTitle:    "Platform Engineer",
				CompanyName: "Example Careers",
				JobLocation: "Remote",
			},
			{
				UserID:      TestUserPro.ID,
				JobTitle:    "Mystery Role",
				CompanyName: "Unknown",
			},
		}

		if err := db.Create(&apps).Error; err != nil {
			return err
		}
		TestAppLinked = apps[0]
		TestAppURLOnly1 = apps[1]
		TestAppURLOnly2 = apps[2]
		TestAppEmpty = apps[3]
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"free_user", "pro_user", "enterprise_user", "admin_user",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "free_user":
			TestUserFree = u
		case "pro_user":
			TestUserPro = u
		case "enterprise_user":
			TestUserEnterprise = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	// Load first three postings deterministically
	var postings []m.JobPosting
	if err := db.Order("id ASC").Limit(3).Find(&postings).Error; err == nil {
		if len(postings) > 0 {
			TestPosting1 = postings[0]
		}
		if len(postings) > 1 {
			TestPosting2 = postings[1]
		}
		if len(postings) > 2 {
			TestPosting3 = postings[2]
		}
	}

	// Load applications in seed order
	var apps []m.JobApplication
	if err := db.Order("id ASC").Limit(4).Find(&apps).Error; err == nil {
		if len(apps) > 0 {
			TestAppLinked = apps[0]
		}
		if len(apps) > 1 {
			TestAppURLOnly1 = apps[1]
		}
		if len(apps) > 2 {
			TestAppURLOnly2 = apps[2]
		}
		if len(apps) > 3 {
			TestAppEmpty = apps[3]
		}
	}

	return nil
}
