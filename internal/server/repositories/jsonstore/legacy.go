package jsonstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/cryptox"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

// legacyAvatar is what the timer app assigned to accounts without a picture.
const legacyAvatar = "https://cdn-icons-png.flaticon.com/512/354/354637.png"

type legacyUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Room      string `json:"room"`
	Course    string `json:"course"`
	Specialty string `json:"specialty"`
}

type legacySubject struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeacherID *int64 `json:"teacher_id"`
}

type legacyAbsence struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	SubjectID int64  `json:"subject_id"`
	Deadline  string `json:"deadline"`
	Status    string `json:"status"`
}

type legacyCreator struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Desc   string `json:"desc"`
	Skills string `json:"skills"`
	Avatar string `json:"avatar"`
}

type legacyDocument struct {
	Users    []legacyUser    `json:"users"`
	Subjects []legacySubject `json:"subjects"`
	Absences []legacyAbsence `json:"absences"`
	Creators []legacyCreator `json:"creators"`
}

// hashPassword is replaced in tests to keep them fast.
var hashPassword = cryptox.HashPassword

// migrateLegacy converts the unversioned timer layout. Account ids are
// kept so absences stay attached; the old app could hand out the same id
// twice, in which case the later account gets a fresh id.
func migrateLegacy(raw []byte) (*Document, error) {
	var old legacyDocument
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, fmt.Errorf("decode legacy store: %w", err)
	}

	doc := newDocument()
	now := time.Now()

	seen := map[int64]bool{}
	emails := map[string]bool{}
	var renumber []*models.User
	for _, lu := range old.Users {
		hash := lu.Password
		if !cryptox.IsHashed(hash) {
			var err error
			if hash, err = hashPassword(lu.Password); err != nil {
				return nil, fmt.Errorf("migrate user %q: %w", lu.Username, err)
			}
		}

		u := &models.User{
			ID:           lu.ID,
			Username:     lu.Username,
			Email:        strings.TrimSpace(lu.Email),
			PasswordHash: hash,
			Role:         models.Role(strings.ToUpper(lu.Role)),
			Status:       models.StatusActive,
			FullName:     lu.FullName,
			Avatar:       lu.Avatar,
			Room:         lu.Room,
			CreatedAt:    now,
		}
		if !u.Role.Valid() {
			u.Role = models.RoleStudent
		}
		if u.Email == "" {
			u.Email = u.Username + "@" + common.DefaultEmailDomain
		}
		if emails[u.Email] {
			u.Email = ""
		} else {
			emails[u.Email] = true
		}
		if u.Avatar == "" {
			u.Avatar = legacyAvatar
		}
		if u.FullName == "" {
			u.FullName = u.Username
		}

		if seen[u.ID] || u.ID <= 0 {
			renumber = append(renumber, u)
		} else {
			seen[u.ID] = true
			doc.bumpSequence(seqUsers, u.ID)
		}
		doc.Users = append(doc.Users, u)
	}
	for _, u := range renumber {
		u.ID = doc.nextID(seqUsers)
	}

	for i, u := range doc.Users {
		switch u.Role {
		case models.RoleStudent:
			first, last := models.SplitFullName(u.FullName)
			course, specialty := old.Users[i].Course, old.Users[i].Specialty
			if course == "" {
				course = "1"
			}
			if specialty == "" {
				specialty = "ІПЗ"
			}
			doc.Students = append(doc.Students, &models.StudentProfile{
				ID:        doc.nextID(seqStudents),
				UserID:    u.ID,
				FirstName: first,
				LastName:  last,
				Course:    course,
				Specialty: specialty,
				Avatar:    u.Avatar,
			})
		case models.RoleCompany:
			doc.Companies = append(doc.Companies, &models.CompanyProfile{
				ID:          doc.nextID(seqCompanies),
				UserID:      u.ID,
				CompanyName: u.FullName,
				Avatar:      u.Avatar,
			})
		case models.RoleAdmin:
			doc.Admins = append(doc.Admins, &models.AdminProfile{
				ID:     doc.nextID(seqAdmins),
				UserID: u.ID,
				Level:  1,
			})
		}
	}

	for _, ls := range old.Subjects {
		s := &models.Subject{ID: ls.ID, Name: ls.Name, TeacherID: ls.TeacherID}
		if s.TeacherID != nil && doc.user(*s.TeacherID) == nil {
			s.TeacherID = nil
		}
		doc.Subjects = append(doc.Subjects, s)
		doc.bumpSequence(seqSubjects, s.ID)
	}

	for _, la := range old.Absences {
		if doc.user(la.StudentID) == nil || doc.subject(la.SubjectID) == nil {
			continue
		}
		status := la.Status
		if status == "" {
			status = models.AbsenceActive
		}
		doc.Absences = append(doc.Absences, &models.Absence{
			ID:        doc.nextID(seqAbsences),
			StudentID: la.StudentID,
			SubjectID: la.SubjectID,
			Deadline:  la.Deadline,
			Status:    status,
			CreatedAt: now,
		})
	}

	creators := make([]models.Creator, 0, len(old.Creators))
	for _, lc := range old.Creators {
		creators = append(creators, models.Creator{
			Name: lc.Name, Role: lc.Role, Description: lc.Desc, Skills: lc.Skills, Avatar: lc.Avatar,
		})
	}
	if len(creators) < len(models.DefaultCreators()) {
		creators = models.DefaultCreators()
	}
	for _, c := range creators {
		c.ID = doc.nextID(seqCreators)
		doc.Creators = append(doc.Creators, &c)
	}

	return doc, nil
}
