package auth

import (
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// Fixed account ids for the two back-office users.
const (
	AdminID     = "admin"
	WarehouseID = "almacen"
)

// CrewID and DriverID build the stable ids of a unit's two accounts.
func CrewID(unit int) string   { return fmt.Sprintf("movil-%d", unit) }
func DriverID(unit int) string { return fmt.Sprintf("condmovil-%d", unit) }

// SeedUsers builds the initial account list: admin, warehouse and a crew and
// driver account for units 1..fleetSize, all sharing the given password.
func SeedUsers(fleetSize int, password string) ([]models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, 2+2*fleetSize)
	users = append(users,
		models.User{ID: AdminID, Username: "admin", PasswordHash: hash, Role: models.RoleAdmin, DisplayName: "Administrador"},
		models.User{ID: WarehouseID, Username: "almacen", PasswordHash: hash, Role: models.RoleWarehouse, DisplayName: "Almacén Central"},
	)
	for n := 1; n <= fleetSize; n++ {
		users = append(users,
			models.User{
				ID:           CrewID(n),
				Username:     fmt.Sprintf("Movil-%d", n),
				PasswordHash: hash,
				Role:         models.RoleMobile,
				Kind:         models.UnitCrew,
				UnitNumber:   n,
				DisplayName:  fmt.Sprintf("Móvil %d", n),
			},
			models.User{
				ID:           DriverID(n),
				Username:     fmt.Sprintf("CONDMOVIL-%d", n),
				PasswordHash: hash,
				Role:         models.RoleMobile,
				Kind:         models.UnitDriver,
				UnitNumber:   n,
				DisplayName:  fmt.Sprintf("Conductor %d", n),
			},
		)
	}
	return users, nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

var roleOrder = map[models.Role]int{models.RoleAdmin: 0, models.RoleWarehouse: 1, models.RoleMobile: 2}

// sortUsers restores seed order: back office first, then units with crew before driver.
func sortUsers(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if roleOrder[a.Role] != roleOrder[b.Role] {
			return roleOrder[a.Role] < roleOrder[b.Role]
		}
		if a.UnitNumber != b.UnitNumber {
			return a.UnitNumber < b.UnitNumber
		}
		return a.Kind < b.Kind
	})
}
