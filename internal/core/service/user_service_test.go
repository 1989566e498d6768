package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

func newTestUserService(users *stubUserRepo, objectives *stubObjectiveRepo) *UserService {
	return NewUserService(users, objectives, zerolog.Nop())
}

func TestUserService_Create_ManagerOnly(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		ActorID:  employee.ID,
		Email:    "new@example.com",
		Password: "pass",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee actor, got %v", err)
	}

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		ActorID:   manager.ID,
		Email:     "new@example.com",
		Password:  "pass",
		FirstName: "Nina",
		Region:    domain.RegionAPAC,
		ManagerID: manager.ID,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Role != domain.RoleEmployee {
		t.Errorf("role = %q, want default employee", created.Role)
	}
	if !created.EmailNotifications {
		t.Errorf("email notifications should default to on")
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		ActorID:  manager.ID,
		Email:    employee.Email,
		Password: "pass",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_SelfManagerRejected(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	_, err := svc.Update(context.Background(), ports.UpdateUserInput{
		ActorID:   manager.ID,
		UserID:    employee.ID,
		ManagerID: employee.ID,
	})
	if !errors.Is(err, domain.ErrSelfManager) {
		t.Fatalf("expected ErrSelfManager, got %v", err)
	}
}

func TestUserService_Update_RoleChangeManagerOnly(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	// Employees can change their own profile but not their role.
	updated, err := svc.Update(context.Background(), ports.UpdateUserInput{
		ActorID:   employee.ID,
		UserID:    employee.ID,
		FirstName: "Alicia",
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.FirstName != "Alicia" {
		t.Errorf("first name = %q", updated.FirstName)
	}
	if updated.Role != domain.RoleEmployee {
		t.Errorf("employee escalated own role to %q", updated.Role)
	}

	updated, err = svc.Update(context.Background(), ports.UpdateUserInput{
		ActorID: manager.ID,
		UserID:  employee.ID,
		Role:    domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("manager Update returned error: %v", err)
	}
	if updated.Role != domain.RoleManager {
		t.Errorf("role = %q, want manager", updated.Role)
	}
}

func TestUserService_Update_ForbiddenForOtherEmployee(t *testing.T) {
	employee, manager := testUsers()
	other := &domain.User{ID: "emp2", Email: "bob@example.com", Role: domain.RoleEmployee}
	users := newStubUserRepo(employee, manager, other)
	svc := newTestUserService(users, newStubObjectiveRepo())

	_, err := svc.Update(context.Background(), ports.UpdateUserInput{
		ActorID:   other.ID,
		UserID:    employee.ID,
		FirstName: "Mallory",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Delete_CascadesObjectives(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	objectives := newStubObjectiveRepo(testObjective(employee.ID))
	svc := newTestUserService(users, objectives)

	if err := svc.Delete(context.Background(), employee.ID, manager.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := users.FindByID(context.Background(), employee.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}
	if len(objectives.objectives) != 0 {
		t.Fatalf("objectives not cascaded, %d remain", len(objectives.objectives))
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	_, manager := testUsers()
	users := newStubUserRepo(manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	if err := svc.Delete(context.Background(), manager.ID, manager.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-delete, got %v", err)
	}
}

func TestUserService_SetEmailNotifications(t *testing.T) {
	employee, manager := testUsers()
	users := newStubUserRepo(employee, manager)
	svc := newTestUserService(users, newStubObjectiveRepo())

	if err := svc.SetEmailNotifications(context.Background(), employee.ID, false); err != nil {
		t.Fatalf("SetEmailNotifications returned error: %v", err)
	}
	stored, err := users.FindByID(context.Background(), employee.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.EmailNotifications {
		t.Fatalf("preference not persisted")
	}
}
