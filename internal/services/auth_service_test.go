package services

import (
	"context"
	"testing"

	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signUp(t *testing.T, f *fixture, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := f.auth.SignUp(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "reciclar123",
		FullName: "Marta Gómez",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	return resp
}

func TestSignUpCreatesCitizen(t *testing.T) {
	f := newFixture(t)
	resp := signUp(t, f, "  Marta@Example.com ")

	if resp.User.Email != "marta@example.com" {
		t.Errorf("email = %q, want normalized", resp.User.Email)
	}
	if resp.User.Profile.Role != models.RoleCitizen || resp.User.Profile.Points != 0 {
		t.Errorf("profile = %+v, want citizen with 0 points", resp.User.Profile)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("missing tokens")
	}

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != resp.User.ID.String() || claims["role"] != string(models.RoleCitizen) {
		t.Errorf("claims = %v", claims)
	}

	_, err = f.auth.SignUp(context.Background(), &dto.RegisterRequest{
		Email: "marta@example.com", Password: "otraclave1", FullName: "Otra",
	})
	wantErr(t, err, ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	signUp(t, f, "luis@example.com")

	if _, err := f.auth.SignIn(ctx, &dto.LoginRequest{Email: "LUIS@example.com", Password: "reciclar123"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	_, err := f.auth.SignIn(ctx, &dto.LoginRequest{Email: "luis@example.com", Password: "wrong-pass"})
	wantErr(t, err, ErrInvalidCredentials)
	_, err = f.auth.SignIn(ctx, &dto.LoginRequest{Email: "nadie@example.com", Password: "reciclar123"})
	wantErr(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := signUp(t, f, "sofia@example.com")

	next, err := f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == resp.RefreshToken {
		t.Error("refresh token not rotated")
	}

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	wantErr(t, err, ErrInvalidToken)

	if err := f.auth.SignOut(ctx, &dto.LogoutRequest{RefreshToken: next.RefreshToken}); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: next.RefreshToken})
	wantErr(t, err, ErrInvalidToken)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	citizen := f.profile(t, models.RoleCitizen, 0)
	admin := f.profile(t, models.RoleMunicipalAdmin, 0)
	super := f.profile(t, models.RoleSuperAdmin, 0)

	_, err := f.auth.SetRole(ctx, admin, citizen.ID, models.RoleMunicipalAdmin)
	wantErr(t, err, ErrForbidden)

	_, err = f.auth.SetRole(ctx, super, super.ID, models.RoleCitizen)
	wantErr(t, err, ErrForbidden)

	_, err = f.auth.SetRole(ctx, super, citizen.ID, models.Role("mayor"))
	wantErr(t, err, ErrValidation)

	_, err = f.auth.SetRole(ctx, super, uuid.New(), models.RoleCitizen)
	wantErr(t, err, ErrNotFound)

	promoted, err := f.auth.SetRole(ctx, super, citizen.ID, models.RoleMunicipalAdmin)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if promoted.Role != models.RoleMunicipalAdmin {
		t.Errorf("role = %s, want municipal_admin", promoted.Role)
	}
}
