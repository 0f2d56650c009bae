package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	createUsername string
	createEmail    string
	createPassword string
	createRole     string
	deleteAs       string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Account management",
}

// ./restaurant-api user create --username root --email root@example.com --role admin
var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account of any role, admin included",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := model.Role(createRole)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q, expected one of %v", createRole, model.Roles())
		}

		reader := bufio.NewReader(os.Stdin)
		if createUsername == "" {
			createUsername = prompt(reader, "Username: ")
		}
		if createEmail == "" {
			createEmail = prompt(reader, "Email: ")
		}
		if createPassword == "" {
			password, err := readPassword()
			if err != nil {
				return err
			}
			createPassword = password
		}

		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		user, err := a.services.Users.CreateUser(cmd.Context(), createUsername, createEmail, createPassword, role)
		if err != nil {
			return err
		}
		fmt.Printf("created %s %q with id %d\n", user.Role, user.Username, user.ID)
		return nil
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		users, err := a.services.Users.List(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-5s %-20s %-30s %-18s %-20s\n", "ID", "USERNAME", "EMAIL", "ROLE", "CREATED")
		fmt.Println(strings.Repeat("-", 95))
		for _, u := range users {
			fmt.Printf("%-5d %-20s %-30s %-18s %-20s\n", u.ID, u.Username, u.Email, u.Role, u.CreatedAt)
		}
		return nil
	},
}

// ./restaurant-api user delete 42 --as root
var deleteUserCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an account and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		var admin model.User
		if err := a.db.WithContext(cmd.Context()).Where("username = ?", deleteAs).First(&admin).Error; err != nil {
			return fmt.Errorf("look up %q: %w", deleteAs, err)
		}
		actor := policy.Actor{ID: admin.ID, Role: admin.Role}
		if err := a.services.Users.Delete(cmd.Context(), actor, uint(id)); err != nil {
			return err
		}
		fmt.Printf("deleted user %d\n", id)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVarP(&createUsername, "username", "u", "", "username (prompted when empty)")
	createUserCmd.Flags().StringVarP(&createEmail, "email", "e", "", "email (prompted when empty)")
	createUserCmd.Flags().StringVarP(&createPassword, "password", "p", "", "password (prompted when empty)")
	createUserCmd.Flags().StringVarP(&createRole, "role", "r", string(model.RoleAdmin), "admin, user or restaurant_owner")
	deleteUserCmd.Flags().StringVar(&deleteAs, "as", "", "admin username performing the deletion")
	_ = deleteUserCmd.MarkFlagRequired("as")

	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(listUsersCmd)
	userCmd.AddCommand(deleteUserCmd)

	rootCmd.AddCommand(userCmd)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// readPassword reads the password twice without echo
func readPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
