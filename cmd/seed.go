package cmd

import (
	"context"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/emrgen/circle/internal/config"
	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/service"
	"github.com/emrgen/circle/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedCmd loads demo data: fake users, a partially accepted connection
// graph, and posts with comments and likes. All writes except the user rows
// go through the services so seeded data obeys the same invariants as live
// data.
func seedCmd() *cobra.Command {
	var users int
	var posts int

	command := &cobra.Command{
		Use:   "seed",
		Short: "load demo data",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			graphStore := store.NewGormStore(db)
			if err := graphStore.Migrate(); err != nil {
				logrus.Fatalf("migrate failed: %v", err)
			}

			ctx := context.Background()
			connections := service.NewConnectionService(graphStore)
			engagement := service.NewEngagementService(graphStore)

			ids := make([]uint, 0, users)
			for i := 0; i < users; i++ {
				user := model.User{
					Email:     gofakeit.Email(),
					FirstName: gofakeit.FirstName(),
					LastName:  gofakeit.LastName(),
					Headline:  gofakeit.JobTitle() + " at " + gofakeit.Company(),
				}
				if err := db.Create(&user).Error; err != nil {
					logrus.Fatalf("seeding user failed: %v", err)
				}
				ids = append(ids, user.ID)
			}
			logrus.Infof("seeded %d users", len(ids))

			accepted := 0
			for i := 0; i < len(ids); i++ {
				for j := i + 1; j < len(ids); j++ {
					if rand.Intn(4) != 0 {
						continue
					}
					conn, err := connections.SendRequest(ctx, ids[i], ids[j], gofakeit.HackerPhrase())
					if err != nil {
						logrus.Fatalf("seeding connection failed: %v", err)
					}
					// leave some requests pending and decline a few
					switch rand.Intn(4) {
					case 0:
					case 1:
						if _, err := connections.Respond(ctx, conn.ID, ids[j], false); err != nil {
							logrus.Fatalf("seeding decline failed: %v", err)
						}
					default:
						if _, err := connections.Respond(ctx, conn.ID, ids[j], true); err != nil {
							logrus.Fatalf("seeding accept failed: %v", err)
						}
						accepted++
					}
				}
			}
			logrus.Infof("seeded connection graph with %d accepted edges", accepted)

			for i := 0; i < posts; i++ {
				author := ids[rand.Intn(len(ids))]
				post, err := engagement.CreatePost(ctx, author, gofakeit.Paragraph(1, 3, 12, " "), "")
				if err != nil {
					logrus.Fatalf("seeding post failed: %v", err)
				}

				for _, id := range ids {
					if rand.Intn(5) == 0 {
						if _, _, err := engagement.ToggleLike(ctx, id, post.ID); err != nil {
							logrus.Fatalf("seeding like failed: %v", err)
						}
					}
					if rand.Intn(8) == 0 {
						if _, err := engagement.AddComment(ctx, id, post.ID, gofakeit.Sentence(10)); err != nil {
							logrus.Fatalf("seeding comment failed: %v", err)
						}
					}
				}
			}
			logrus.Infof("seeded %d posts", posts)
		},
	}

	command.Flags().IntVarP(&users, "users", "u", 20, "number of users")
	command.Flags().IntVarP(&posts, "posts", "n", 60, "number of posts")

	command.Flags().SortFlags = false

	return command
}
