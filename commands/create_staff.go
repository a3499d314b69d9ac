package commands

import (
	"fmt"

	"sandwich-shop-api/models"
	"sandwich-shop-api/services"

	"github.com/spf13/cobra"
)

var staffReq services.CreateStaffRequest

var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a back-office account",
	Example: `  sandwich-shop create-staff --name "Ada" --email ada@shop.test --password secret1 --role admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		user, err := services.NewStaffService(db, log).Create(cmd.Context(), staffReq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (id %d)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createStaffCmd.Flags()
	f.StringVar(&staffReq.Name, "name", "", "display name")
	f.StringVar(&staffReq.Email, "email", "", "login email")
	f.StringVar(&staffReq.Password, "password", "", "password (min 6 characters)")
	f.StringVar((*string)(&staffReq.Role), "role", string(models.RoleStaff), "staff or admin")
	_ = createStaffCmd.MarkFlagRequired("name")
	_ = createStaffCmd.MarkFlagRequired("email")
	_ = createStaffCmd.MarkFlagRequired("password")
}
