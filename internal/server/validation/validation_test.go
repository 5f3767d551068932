package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	var verrs Errors
	require.True(t, errors.As(err, &verrs), "expected validation.Errors, got %T", err)
	return verrs
}

func TestSignUpInput(t *testing.T) {
	in := &SignUpInput{
		FirstName: " Ann ",
		LastName:  "Lee",
		Email:     "  A@B.com ",
		Phone:     "(555) 123-4567",
		Password:  "Abcdef12",
	}
	require.NoError(t, Struct(in))
	assert.Equal(t, "Ann", in.FirstName)
	assert.Equal(t, "a@b.com", in.Email)
	assert.Equal(t, "5551234567", in.Phone)
}

func TestSignUpInput_Failures(t *testing.T) {
	in := &SignUpInput{
		LastName: "Lee",
		Email:    "nope",
		Phone:    "555-12",
		Password: "abc",
	}
	verrs := fieldErrors(t, Struct(in))

	assert.Equal(t, []string{"First name is required"}, verrs["first_name"])
	assert.Equal(t, []string{"Invalid email address"}, verrs["email"])
	assert.Equal(t, []string{"Phone number must have at least 10 digits"}, verrs["phone"])
	assert.Contains(t, verrs["password"], "Password must be at least 8 characters")
	assert.Contains(t, verrs["password"], "Password must contain at least one uppercase letter")
	assert.Contains(t, verrs["password"], "Password must contain at least one number")
	assert.NotContains(t, verrs, "last_name")
}

func TestSignUpInput_NameTooLong(t *testing.T) {
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	in := &SignUpInput{FirstName: string(long), LastName: "L", Email: "a@b.com", Phone: "5551234567", Password: "Abcdef12"}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"First name cannot exceed 50 characters"}, verrs["first_name"])
}

func TestResetPasswordInput(t *testing.T) {
	ok := &ResetPasswordInput{Token: "t", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!"}
	require.NoError(t, Struct(ok))

	mismatch := &ResetPasswordInput{Token: "t", Password: "Abcdef1!", ConfirmPassword: "Abcdef1?"}
	verrs := fieldErrors(t, Struct(mismatch))
	assert.Equal(t, []string{"Passwords don't match"}, verrs["confirmPassword"])

	weak := &ResetPasswordInput{Password: "Abcdef12", ConfirmPassword: "Abcdef12"}
	verrs = fieldErrors(t, Struct(weak))
	assert.Equal(t, []string{"Reset token is required"}, verrs["token"])
	assert.Equal(t, []string{"Password must contain at least one special character"}, verrs["password"])
}

func TestChangePasswordInput(t *testing.T) {
	in := &ChangePasswordInput{CurrentPassword: "x", NewPassword: "short", ConfirmPassword: "other"}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"Password must be at least 8 characters"}, verrs["new_password"])
	assert.Equal(t, []string{"Passwords don't match"}, verrs["confirm_password"])
}

func TestNewUserInput_Role(t *testing.T) {
	in := &NewUserInput{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "password1", Phone: "5551234567", Role: models.RoleLead}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"Role must be one of: admin, user"}, verrs["role"])

	in.Role = models.RoleAdmin
	require.NoError(t, Struct(in))
}

func TestBrandInput(t *testing.T) {
	display := " Acme Corp "
	in := &BrandInput{Name: " Acme ", DisplayName: &display}
	require.NoError(t, Struct(in))
	assert.Equal(t, "Acme", in.Name)
	assert.Equal(t, "Acme Corp", *in.DisplayName)
	assert.Equal(t, models.StatusActive, in.Brand().Status)

	blank := "  "
	bad := "not a url"
	in = &BrandInput{DisplayName: &blank, URL: &bad, Status: "archived"}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"Brand name is required"}, verrs["name"])
	assert.Equal(t, []string{"Display name is required"}, verrs["display_name"])
	assert.Equal(t, []string{"URL must be a valid URL"}, verrs["url"])
	assert.Equal(t, []string{"Status must be one of: active, inactive"}, verrs["status"])
}

func TestMarketplaceInput(t *testing.T) {
	in := &MarketplaceInput{PlatformName: "Amazon", CountryCode: "us", CurrencyCode: "usd"}
	require.NoError(t, Struct(in))
	assert.Equal(t, "US", in.CountryCode)
	assert.Equal(t, "USD", in.CurrencyCode)

	in = &MarketplaceInput{PlatformName: "Amazon", CountryCode: "USA", CurrencyCode: "U1D"}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"Country code must be exactly 2 characters"}, verrs["country_code"])
	assert.Equal(t, []string{"Currency code must contain only letters"}, verrs["currency_code"])
}

func TestListingInput_TermIDs(t *testing.T) {
	in := &ListingInput{URL: "https://shop.example/p/1", ProductID: 1, MarketplaceID: 2, BrandTmtermIDs: []int64{3, 0}}
	verrs := fieldErrors(t, Struct(in))
	assert.Equal(t, []string{"Trademark term must be a positive number"}, verrs["brand_tmterm_ids"])

	in.BrandTmtermIDs = []int64{3, 4}
	require.NoError(t, Struct(in))
	assert.Equal(t, []int64{3, 4}, in.Listing().BrandTmtermIDs)
}

func TestBrandLinkInputs(t *testing.T) {
	verrs := fieldErrors(t, Struct(&BrandUsersInput{}))
	assert.Equal(t, []string{"Invalid user IDs"}, verrs["userIds"])

	verrs = fieldErrors(t, Struct(&BrandMarketplacesInput{MarketplaceIDs: []int64{}}))
	assert.Equal(t, []string{"Invalid marketplace IDs"}, verrs["marketplaceIds"])

	verrs = fieldErrors(t, Struct(&BrandUsersInput{UserIDs: []int64{1, -2}}))
	assert.Equal(t, []string{"User must be a positive number"}, verrs["userIds"])

	require.NoError(t, Struct(&BrandUsersInput{UserIDs: []int64{1}}))
}

func TestErrors(t *testing.T) {
	e := Errors{}
	e.Add("email", "Invalid email address")
	e.Add("email", "second")
	e.Add("name", "Name is required")

	assert.Equal(t, "validation failed: email: Invalid email address; second, name: Name is required", e.Error())
	assert.Equal(t, "Invalid email address", e.First())
	assert.Equal(t, Errors{"term": {"dup"}}, Field("term", "dup"))
}

func TestPasswordPolicies(t *testing.T) {
	tests := []struct {
		pw       string
		strongOK bool
		resetOK  bool
	}{
		{"Abcdef12", true, false},
		{"Abcdef1!", true, true},
		{"abcdef12", false, false},
		{"ABCDEFG!", false, false},
		{"Ab1!", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			assert.Equal(t, tt.strongOK, len(StrongPasswordProblems(tt.pw)) == 0)
			assert.Equal(t, tt.resetOK, len(ResetPasswordProblems(tt.pw)) == 0)
		})
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "First name", humanize("FirstName"))
	assert.Equal(t, "Email", humanize("Email"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "15551234567", DigitsOnly("+1 (555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("abc"))
}
