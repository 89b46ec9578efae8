package auth

import (
	"testing"

	"obras-backend/internal/models"
)

func TestCanDeleteRecord(t *testing.T) {
	cases := []struct {
		name      string
		actor     Actor
		createdBy uint
		want      bool
	}{
		{"criador exclui o próprio registro", Actor{UserID: 10}, 10, true},
		{"master exclui registro de qualquer um", Actor{UserID: 1, IsMaster: true}, 10, true},
		{"admin comum não exclui registro alheio", Actor{UserID: 2}, 10, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.actor.CanDeleteRecord(tc.createdBy); got != tc.want {
				t.Fatalf("esperado %v, veio %v", tc.want, got)
			}
		})
	}
}

func TestCanViewProject(t *testing.T) {
	cases := []struct {
		name      string
		actor     Actor
		linkCount int64
		want      bool
	}{
		{"admin vê qualquer projeto", Actor{UserID: 1, Role: models.RoleAdmin}, 0, true},
		{"cliente vinculado vê o projeto", Actor{UserID: 2, Role: models.RoleCliente}, 1, true},
		{"cliente sem vínculo não vê", Actor{UserID: 3, Role: models.RoleCliente}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.actor.CanViewProject(tc.linkCount); got != tc.want {
				t.Fatalf("esperado %v, veio %v", tc.want, got)
			}
		})
	}
}
