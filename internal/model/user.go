package model

import "time"

// User represents a registered customer as stored in the `users` table.
// The password hash is produced by bcrypt and never leaves the
// repository or auth layers.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login handle.
//  Email        – unique contact address.
//  PhoneNumber  – contact phone number.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PhoneNumber  string    // users.phone_number
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}
