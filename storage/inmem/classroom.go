package inmemdb

import (
	"context"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/classroom"
)

type classroomRepository struct {
	db *DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func classroomID(c classroom.Classroom) core.ID { return c.ID }

func (repo *classroomRepository) List(_ context.Context, filter classroom.QueryFilter) ([]classroom.Classroom, error) {
	repo.db.classroom.RLock()
	defer repo.db.classroom.RUnlock()
	return classroom.Filter(repo.db.classroom.all(), filter), nil
}

func (repo *classroomRepository) Get(_ context.Context, id core.ID) (classroom.Classroom, error) {
	repo.db.classroom.RLock()
	defer repo.db.classroom.RUnlock()

	if i := repo.db.classroom.index(id, classroomID); i >= 0 {
		return repo.db.classroom.rows[i], nil
	}
	return classroom.Classroom{}, notFound("classroom")
}

func (repo *classroomRepository) Create(ctx context.Context, nc classroom.NewClassroom) (classroom.Classroom, error) {
	if !repo.db.courseExists(nc.CourseID) {
		return classroom.Classroom{}, unknownCourse()
	}
	room := classroom.Classroom{
		ID:       newID(),
		Name:     nc.Name,
		CourseID: nc.CourseID,
		Capacity: nc.Capacity,
		Location: nc.Location,
	}
	repo.db.classroom.Lock()
	repo.db.classroom.rows = append(repo.db.classroom.rows, room)
	repo.db.classroom.Unlock()

	repo.db.record(ctx, "classroom.create", "classroom:"+room.Name, "")
	return room, nil
}

func (repo *classroomRepository) Update(ctx context.Context, id core.ID, uc classroom.UpdateClassroom) (classroom.Classroom, error) {
	if uc.CourseID != "" && !repo.db.courseExists(uc.CourseID) {
		return classroom.Classroom{}, unknownCourse()
	}

	repo.db.classroom.Lock()
	i := repo.db.classroom.index(id, classroomID)
	if i < 0 {
		repo.db.classroom.Unlock()
		return classroom.Classroom{}, notFound("classroom")
	}
	room := repo.db.classroom.rows[i]
	if uc.Name != "" {
		room.Name = uc.Name
	}
	if uc.CourseID != "" {
		room.CourseID = uc.CourseID
	}
	if uc.Capacity != 0 {
		room.Capacity = uc.Capacity
	}
	if uc.Location != "" {
		room.Location = uc.Location
	}
	repo.db.classroom.rows[i] = room
	repo.db.classroom.Unlock()

	repo.db.record(ctx, "classroom.update", "classroom:"+room.Name, "")
	return room, nil
}

func (repo *classroomRepository) Delete(ctx context.Context, id core.ID) error {
	repo.db.classroom.Lock()
	i := repo.db.classroom.index(id, classroomID)
	if i < 0 {
		repo.db.classroom.Unlock()
		return notFound("classroom")
	}
	name := repo.db.classroom.rows[i].Name
	repo.db.classroom.remove(i)
	repo.db.classroom.Unlock()

	repo.db.record(ctx, "classroom.delete", "classroom:"+name, "")
	return nil
}
