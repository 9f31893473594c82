package profile

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

type (
	// User is the student identity card shown on the dashboard header.
	User struct {
		Name       string `json:"name"`
		RegNumber  string `json:"regNumber"`
		Department string `json:"department"`
		Program    string `json:"program"`
		Semester   int    `json:"semester"`
		Section    string `json:"section"`
		Batch      string `json:"batch"`
		Mobile     string `json:"mobile"`
	}

	Result struct {
		User  User `json:"user"`
		Stale bool `json:"stale"`
	}

	Service struct {
		client portal.Client
		logger core.Logger
	}
)

func NewService(client portal.Client, logger core.Logger) *Service {
	return &Service{client: client, logger: logger}
}

var (
	nameKeys       = []string{"name", "Name", "studentName"}
	regNumberKeys  = []string{"regNumber", "RegNumber", "registrationNumber"}
	departmentKeys = []string{"department", "Department", "branch"}
	programKeys    = []string{"program", "Program", "specialisation"}
	semesterKeys   = []string{"semester", "Semester"}
	sectionKeys    = []string{"section", "Section"}
	batchKeys      = []string{"batch", "Batch"}
	mobileKeys     = []string{"mobile", "Mobile", "phone"}
)

// Profile fetches and normalizes the student record.
func (svc *Service) Profile(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Profile(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching profile")
	}

	src := rec
	if data := rec.Child("data", "Data", "user", "User"); data != nil {
		src = data
	}

	return Result{
		User: User{
			Name:       src.String(nameKeys, ""),
			RegNumber:  src.String(regNumberKeys, ""),
			Department: src.String(departmentKeys, ""),
			Program:    src.String(programKeys, ""),
			Semester:   int(src.Number(semesterKeys, 0)),
			Section:    src.String(sectionKeys, ""),
			Batch:      src.String(batchKeys, ""),
			Mobile:     src.String(mobileKeys, ""),
		},
		Stale: rec.Stale(),
	}, nil
}
