// file: internals/features/exams/exam_takers/service/roster_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"examku_backend/internals/features/exams/allocation"
	"examku_backend/internals/features/exams/exam_takers/dto"
	"examku_backend/internals/features/exams/exam_takers/model"
	termModel "examku_backend/internals/features/exams/exam_terms/model"
)

/* =========================
   Nomor peserta (pure)
========================= */

// BuildRegNumber menyusun nomor peserta: {tahun%100}{grade 2 digit}{seq 4 digit}.
// Contoh: tahun 2026, grade 10, urutan 7 → "2610" + "0007" = "26100007".
func BuildRegNumber(year, grade, seq int) string {
	return fmt.Sprintf("%02d%02d%04d", year%100, grade, seq)
}

// NextSeqAfter membaca 4 digit urutan di ekor nomor peserta tertinggi yang
// sudah terbit dan mengembalikan urutan berikutnya (1 bila belum ada).
func NextSeqAfter(maxReg string) int {
	if len(maxReg) < 4 {
		return 1
	}
	seq, err := strconv.Atoi(maxReg[len(maxReg)-4:])
	if err != nil {
		return 1
	}
	return seq + 1
}

type rosterRow struct {
	StudentID uuid.UUID
	Name      string
	Grade     int
	Subjects  []string
}

// sortRoster: urutan kanonik pembangkitan nomor — (grade, nama, student_id).
// Stabil terhadap urutan payload supaya nomor deterministik.
func sortRoster(rows []rosterRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Grade != rows[j].Grade {
			return rows[i].Grade < rows[j].Grade
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].StudentID.String() < rows[j].StudentID.String()
	})
}

/* =========================
   Service
========================= */

type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// RegisterRoster mendaftarkan peserta secara bulk. Tiap siswa adalah unit
// independen yang dilaporkan per baris; nomor peserta dibangkitkan sekali
// di sini dan tidak pernah berubah selama term.
func (s *RosterService) RegisterRoster(ctx context.Context, term *termModel.ExamTermModel, req dto.RegisterRosterRequest) (*allocation.BatchReport, []model.ExamTakerModel, error) {
	if !term.IsEditable() {
		return nil, nil, allocation.Conflictf("term %s berstatus %s, roster tidak bisa diubah", term.ExamTermName, term.ExamTermStatus)
	}

	report := allocation.NewBatchReport()
	rows := make([]rosterRow, 0, len(req.Students))
	seen := map[uuid.UUID]bool{}

	for _, st := range req.Students {
		unit := fmt.Sprintf("student:%s", st.StudentID)
		switch {
		case seen[st.StudentID]:
			report.Add(unit, allocation.Validationf("student %s muncul dua kali di payload", st.StudentID))
		case !term.HasGrade(st.Grade):
			report.Add(unit, allocation.Validationf("grade %d di luar cakupan term", st.Grade))
		case strings.TrimSpace(st.StudentName) == "":
			report.Add(unit, allocation.Validationf("nama siswa kosong"))
		default:
			seen[st.StudentID] = true
			rows = append(rows, rosterRow{
				StudentID: st.StudentID,
				Name:      strings.TrimSpace(st.StudentName),
				Grade:     st.Grade,
				Subjects:  st.Subjects,
			})
		}
	}
	if len(rows) == 0 {
		return report, nil, nil
	}
	sortRoster(rows)

	var created []model.ExamTakerModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// siswa yang sudah terdaftar di term → baris gagal Conflict
		studentIDs := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			studentIDs = append(studentIDs, r.StudentID)
		}
		var existing []model.ExamTakerModel
		if err := tx.Where("exam_taker_term_id = ? AND exam_taker_student_id IN ?", term.ExamTermID, studentIDs).
			Find(&existing).Error; err != nil {
			return err
		}
		registered := map[uuid.UUID]bool{}
		for _, e := range existing {
			registered[e.ExamTakerStudentID] = true
		}

		// Nomor peserta lanjut dari nomor tertinggi yang pernah terbit per
		// grade. Unscoped: nomor milik taker yang sudah dicabut (soft delete)
		// tetap hangus dan tidak boleh diterbitkan ulang.
		nextSeq := map[int]int{}
		for _, r := range rows {
			if _, ok := nextSeq[r.Grade]; ok {
				continue
			}
			var maxReg string
			if err := tx.Unscoped().Model(&model.ExamTakerModel{}).
				Where("exam_taker_term_id = ? AND exam_taker_grade = ?", term.ExamTermID, r.Grade).
				Select("COALESCE(MAX(exam_taker_reg_number), '')").
				Scan(&maxReg).Error; err != nil {
				return err
			}
			nextSeq[r.Grade] = NextSeqAfter(maxReg)
		}

		year := term.ExamTermStartDate.Year()
		for _, r := range rows {
			unit := fmt.Sprintf("student:%s", r.StudentID)
			if registered[r.StudentID] {
				report.Add(unit, allocation.Conflictf("siswa sudah terdaftar di term ini"))
				continue
			}

			taker := model.ExamTakerModel{
				ExamTakerTermID:      term.ExamTermID,
				ExamTakerStudentID:   r.StudentID,
				ExamTakerStudentName: r.Name,
				ExamTakerGrade:       r.Grade,
				ExamTakerRegNumber:   BuildRegNumber(year, r.Grade, nextSeq[r.Grade]),
			}
			if err := tx.Create(&taker).Error; err != nil {
				return err
			}
			nextSeq[r.Grade]++

			for _, code := range dedupSubjects(r.Subjects) {
				sub := model.ExamTakerSubjectModel{
					ExamTakerSubjectTakerID: taker.ExamTakerID,
					ExamTakerSubjectCode:    code,
				}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}
			}

			created = append(created, taker)
			report.Add(unit, nil)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return report, created, nil
}

// ListTakers membaca roster term, opsional difilter grade.
func (s *RosterService) ListTakers(ctx context.Context, termID uuid.UUID, grade int, limit, offset int) ([]model.ExamTakerModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.ExamTakerModel{}).
		Where("exam_taker_term_id = ?", termID)
	if grade > 0 {
		q = q.Where("exam_taker_grade = ?", grade)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var takers []model.ExamTakerModel
	if err := q.Order("exam_taker_reg_number ASC").
		Limit(limit).Offset(offset).
		Find(&takers).Error; err != nil {
		return nil, 0, err
	}
	return takers, total, nil
}

// RemoveTaker mencabut satu peserta dari roster. Ditolak bila siswa sudah
// masuk kelompok — grouping harus di-reset atau siswa dipindah dulu.
func (s *RosterService) RemoveTaker(ctx context.Context, term *termModel.ExamTermModel, takerID uuid.UUID) error {
	if !term.IsEditable() {
		return allocation.Conflictf("term berstatus %s, roster tidak bisa diubah", term.ExamTermStatus)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taker model.ExamTakerModel
		if err := tx.First(&taker, "exam_taker_id = ? AND exam_taker_term_id = ?", takerID, term.ExamTermID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return allocation.Validationf("taker %s tidak ditemukan pada term ini", takerID)
			}
			return err
		}
		if taker.ExamTakerGroupID != nil {
			return allocation.Conflictf("siswa masih anggota kelompok; reset grouping atau pindahkan dulu")
		}
		if err := tx.Where("exam_taker_subject_taker_id = ?", takerID).
			Delete(&model.ExamTakerSubjectModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&taker).Error
	})
}

// Itinerary merangkum jadwal satu peserta: session, ruang, kursi per mapel.
func (s *RosterService) Itinerary(ctx context.Context, termID, takerID uuid.UUID) (*dto.TakerItineraryResponse, error) {
	db := s.DB.WithContext(ctx)

	var taker model.ExamTakerModel
	if err := db.First(&taker, "exam_taker_id = ? AND exam_taker_term_id = ?", takerID, termID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, allocation.Validationf("taker %s tidak ditemukan pada term ini", takerID)
		}
		return nil, err
	}

	var entries []dto.ItineraryEntry
	err := db.Table("exam_sessions").
		Select(`exam_sessions.exam_session_id AS session_id,
			exam_sessions.exam_session_subject_code AS subject_code,
			exam_sessions.exam_session_subject_name AS subject_name,
			exam_sessions.exam_session_start_at AS start_at,
			exam_sessions.exam_session_end_at AS end_at,
			session_rooms.session_room_room_code AS room_code,
			seat_assignments.seat_assignment_seat_number AS seat_number`).
		Joins(`LEFT JOIN seat_assignments
			ON seat_assignments.seat_assignment_session_id = exam_sessions.exam_session_id
			AND seat_assignments.seat_assignment_taker_id = ?`, takerID).
		Joins(`LEFT JOIN session_rooms
			ON session_rooms.session_room_id = seat_assignments.seat_assignment_session_room_id`).
		Where("exam_sessions.exam_session_term_id = ? AND exam_sessions.exam_session_grade = ?", termID, taker.ExamTakerGrade).
		Where("exam_sessions.exam_session_deleted_at IS NULL").
		Order("exam_sessions.exam_session_start_at ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	groupCode := ""
	if taker.ExamTakerGroupID != nil {
		var g struct {
			Code string `gorm:"column:code"`
		}
		if err := db.Table("stable_groups").
			Select("stable_group_code AS code").
			Where("stable_group_id = ?", *taker.ExamTakerGroupID).
			Scan(&g).Error; err != nil {
			return nil, err
		}
		groupCode = g.Code
	}
	for i := range entries {
		entries[i].GroupCode = groupCode
		entries[i].GroupID = taker.ExamTakerGroupID
	}

	resp := dto.TakerItineraryResponse{
		Taker:   dto.ToExamTakerResponse(&taker),
		Entries: entries,
	}
	return &resp, nil
}

func dedupSubjects(codes []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
