package ability_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/ability"
)

var _ = Describe("Ability", func() {
	Describe("#Can", func() {
		It("allows an action granted by a rule", func() {
			subject := ability.New(rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})

			Expect(subject.Can("read", "Post", nil)).To(BeTrue())
			Expect(subject.Can("update", "Post", nil)).To(BeFalse())
			Expect(subject.Can("read", "Comment", nil)).To(BeFalse())
		})

		It("denies everything when no rule exists", func() {
			subject := ability.New()

			Expect(subject.Can("read", "Post", nil)).To(BeFalse())
		})

		Describe("the manage action", func() {
			It("matches every requested action on the rule's subject", func() {
				subject := ability.New(rolegraph.Permission{Name: "manage-post", Action: ability.ManageAction, Subject: "Post"})

				Expect(subject.Can("read", "Post", nil)).To(BeTrue())
				Expect(subject.Can("delete", "Post", nil)).To(BeTrue())
				Expect(subject.Can("read", "Comment", nil)).To(BeFalse())
			})

			It("is never matched by other rule actions", func() {
				subject := ability.New(rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})

				Expect(subject.Can(ability.ManageAction, "Post", nil)).To(BeFalse())
			})
		})

		Describe("conditions", func() {
			It("requires every condition to hold on the subject instance", func() {
				subject := ability.New(rolegraph.Permission{
					Name:       "update-own-post",
					Action:     "update",
					Subject:    "Post",
					Conditions: rolegraph.Conditions{"authorId": "1"},
				})

				Expect(subject.Can("update", "Post", map[string]interface{}{"authorId": "1"})).To(BeTrue())
				Expect(subject.Can("update", "Post", map[string]interface{}{"authorId": "2"})).To(BeFalse())
			})

			It("treats an absent attribute as a failed condition", func() {
				subject := ability.New(rolegraph.Permission{
					Name:       "update-own-post",
					Action:     "update",
					Subject:    "Post",
					Conditions: rolegraph.Conditions{"authorId": "1"},
				})

				Expect(subject.Can("update", "Post", map[string]interface{}{})).To(BeFalse())
				Expect(subject.Can("update", "Post", nil)).To(BeFalse())
			})
		})

		Describe("inverted rules", func() {
			It("denies even when another rule allows, regardless of order", func() {
				allow := rolegraph.Permission{Name: "update-post", Action: "update", Subject: "Post"}
				forbid := rolegraph.Permission{Name: "no-updates", Action: "update", Subject: "Post", Inverted: true}

				Expect(ability.New(allow, forbid).Can("update", "Post", nil)).To(BeFalse())
				Expect(ability.New(forbid, allow).Can("update", "Post", nil)).To(BeFalse())
			})

			It("only applies when its own conditions hold", func() {
				subject := ability.New(
					rolegraph.Permission{Name: "update-post", Action: "update", Subject: "Post"},
					rolegraph.Permission{
						Name:       "no-published-updates",
						Action:     "update",
						Subject:    "Post",
						Conditions: rolegraph.Conditions{"published": true},
						Inverted:   true,
					},
				)

				Expect(subject.Can("update", "Post", map[string]interface{}{"published": false})).To(BeTrue())
				Expect(subject.Can("update", "Post", map[string]interface{}{"published": true})).To(BeFalse())
			})
		})
	})

	Describe("#Explain", func() {
		It("surfaces the inverted rule's reason on denial", func() {
			subject := ability.New(
				rolegraph.Permission{Name: "update-post", Action: "update", Subject: "Post"},
				rolegraph.Permission{
					Name:     "no-updates",
					Action:   "update",
					Subject:  "Post",
					Inverted: true,
					Reason:   "updates are frozen",
				},
			)

			decision := subject.Explain("update", "Post", nil)

			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).To(Equal("updates are frozen"))
		})

		It("carries the granting rule's fields on success", func() {
			subject := ability.New(rolegraph.Permission{
				Name:    "update-title",
				Action:  "update",
				Subject: "Post",
				Fields:  []string{"title"},
			})

			decision := subject.Explain("update", "Post", nil)

			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Fields).To(Equal([]string{"title"}))
		})

		It("leaves the reason empty when no rule matched at all", func() {
			subject := ability.New()

			decision := subject.Explain("update", "Post", nil)

			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).To(BeEmpty())
		})
	})

	Describe("#CanOnField", func() {
		It("scopes a field-restricted rule to its fields", func() {
			subject := ability.New(rolegraph.Permission{
				Name:    "update-title",
				Action:  "update",
				Subject: "Post",
				Fields:  []string{"title"},
			})

			Expect(subject.CanOnField("update", "Post", "title", nil)).To(BeTrue())
			Expect(subject.CanOnField("update", "Post", "body", nil)).To(BeFalse())
		})

		It("applies a rule without fields to every field", func() {
			subject := ability.New(rolegraph.Permission{Name: "update-post", Action: "update", Subject: "Post"})

			Expect(subject.CanOnField("update", "Post", "title", nil)).To(BeTrue())
			Expect(subject.CanOnField("update", "Post", "body", nil)).To(BeTrue())
		})
	})
})
