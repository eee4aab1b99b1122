package services

const (
	msgRegisterMissing  = "Please enter both email and password."
	msgRegisterOK       = "Registration successful! Please log in."
	msgRegisterInUse    = "This email is already in use."
	msgRegisterBadEmail = "The email address is badly formatted."
	msgRegisterFailed   = "Registration failed."

	msgLoginMissing = "Please fill both email and password fields."
	msgLoginOK      = "Login successful."
	msgLoginInvalid = "Invalid email or password. Please try again."
	msgLoginFailed  = "Login failed."

	msgResetMissing = "Please enter your email to reset the password."
	msgResetOK      = "Password reset email sent. Check your inbox."
	msgResetFailed  = "Failed to send reset email."

	msgUpdateEmailInvalid = "Invalid email provided for update."
	msgUpdateEmailOK      = "Email updated successfully. You may need to sign in again soon."
	msgUpdateEmailFailed  = "Failed to update email. Please sign out, sign back in immediately, and try again."

	msgDetailsSaved   = "Local user details saved."
	msgDetailsUpdated = "User details updated successfully."
	msgAgeInvalid     = "Age must be a valid number."
	msgUnknownField   = "Unknown profile field."

	msgImageSaved  = "Profile image updated successfully."
	msgImageFailed = "Failed to save image. Check file permissions."
)

// Profile defaults used when a profile is first created.
const (
	DefaultName     = "User"
	DefaultAge      = "N/A"
	DefaultSkills   = "Beginner"
	DefaultLocation = "Unknown"
)
