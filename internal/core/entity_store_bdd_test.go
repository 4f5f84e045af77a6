package core_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"ocmhub/internal/core"
	"ocmhub/internal/seed"
	"ocmhub/pkg/domain"
)

var bddNow = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

// storeContext carries one scenario's store and the snapshot captured before
// the last When step.
type storeContext struct {
	svc    *core.Service
	before domain.Snapshot
	added  []string
}

func (c *storeContext) theStoreIsSeededWithTheDefaultDataSet() error {
	c.svc = core.NewInMemoryService(nil, core.WithClock(core.ClockFunc(func() time.Time { return bddNow })))
	if err := c.svc.ImportSnapshot(context.Background(), seed.Default(bddNow)); err != nil {
		return err
	}
	c.before = c.svc.Snapshot()
	return nil
}

func (c *storeContext) remember() {
	c.before = c.svc.Snapshot()
	c.added = nil
}

func (c *storeContext) iAddAWorkbenchItem(title, description, image, group string) error {
	c.remember()
	item, _, err := c.svc.AddWorkbenchItem(context.Background(), group, domain.WorkbenchItem{Title: title, Description: description, ImageURL: image})
	if err != nil {
		return err
	}
	c.added = append(c.added, item.ID)
	return nil
}

func groupItems(snap domain.Snapshot, id string) (int, error) {
	for _, g := range snap.Workbench {
		if g.ID == id {
			return len(g.Items), nil
		}
	}
	return 0, fmt.Errorf("group %s not found", id)
}

func (c *storeContext) groupHasMoreItems(group string, n int) error {
	before, err := groupItems(c.before, group)
	if err != nil {
		return err
	}
	after, err := groupItems(c.svc.Snapshot(), group)
	if err != nil {
		return err
	}
	if after != before+n {
		return fmt.Errorf("expected %d items, got %d", before+n, after)
	}
	return nil
}

func (c *storeContext) theProjectMapHasAnEntryNamed(name string) error {
	if len(c.added) != 1 {
		return fmt.Errorf("expected one added item, got %v", c.added)
	}
	p, ok := c.svc.Snapshot().Projects[c.added[0]]
	if !ok {
		return fmt.Errorf("no project for item %s", c.added[0])
	}
	if p.Name != name || p.WorkbenchItemID != c.added[0] {
		return fmt.Errorf("unexpected project %+v", p)
	}
	return nil
}

func (c *storeContext) projectHasAnAdditionalRisk(project, description string) error {
	_, _, err := c.svc.AddRisk(context.Background(), project, domain.ProjectRisk{
		Description: description,
		Impact:      domain.LevelLow,
		Likelihood:  domain.LevelLow,
		Status:      domain.RiskOpen,
	})
	return err
}

func (c *storeContext) iUpdateRiskStatus(id, project, status string) error {
	c.remember()
	_, _, err := c.svc.UpdateRisk(context.Background(), project, id, func(r *domain.ProjectRisk) error {
		r.Status = domain.RiskStatus(status)
		return nil
	})
	return err
}

func (c *storeContext) riskHasStatus(id, project, status string) error {
	for _, r := range c.svc.Snapshot().Projects[project].Risks {
		if r.ID == id {
			if string(r.Status) != status {
				return fmt.Errorf("risk %s has status %s", id, r.Status)
			}
			return nil
		}
	}
	return fmt.Errorf("risk %s not found", id)
}

func (c *storeContext) everyOtherRiskIsUnchanged(project string) error {
	before := c.before.Projects[project].Risks
	after := c.svc.Snapshot().Projects[project].Risks
	if len(before) != len(after) {
		return fmt.Errorf("risk count changed from %d to %d", len(before), len(after))
	}
	changed := 0
	for i := range before {
		if !reflect.DeepEqual(before[i], after[i]) {
			changed++
		}
	}
	if changed != 1 {
		return fmt.Errorf("expected exactly one changed risk, got %d", changed)
	}
	return nil
}

func (c *storeContext) iDeleteQuickLink(id, project string) error {
	c.remember()
	_, err := c.svc.DeleteQuickLink(context.Background(), project, id)
	return err
}

func (c *storeContext) theSnapshotVersionIsUnchanged() error {
	if got := c.svc.Version(); got != c.before.Version {
		return fmt.Errorf("version moved from %d to %d", c.before.Version, got)
	}
	return nil
}

func (c *storeContext) quickLinksAreTheSameCollection(project string) error {
	before := c.before.Projects[project].QuickLinks
	after := c.svc.Snapshot().Projects[project].QuickLinks
	if reflect.ValueOf(before).Pointer() != reflect.ValueOf(after).Pointer() || len(before) != len(after) {
		return fmt.Errorf("quick links were rewritten")
	}
	return nil
}

func (c *storeContext) iAddTwoAnnouncements(title, project string) error {
	c.remember()
	for _, content := range []string{"first", "second"} {
		a, _, err := c.svc.AddAnnouncement(context.Background(), project, domain.Announcement{Title: title, Content: content})
		if err != nil {
			return err
		}
		c.added = append(c.added, a.ID)
	}
	return nil
}

func (c *storeContext) projectHasMoreAnnouncements(project string, n int) error {
	before := len(c.before.Projects[project].Announcements)
	after := len(c.svc.Snapshot().Projects[project].Announcements)
	if after != before+n {
		return fmt.Errorf("expected %d announcements, got %d", before+n, after)
	}
	return nil
}

func (c *storeContext) theNewAnnouncementsHaveDistinctIDs() error {
	if len(c.added) != 2 || c.added[0] == c.added[1] {
		return fmt.Errorf("expected two distinct ids, got %v", c.added)
	}
	return nil
}

func (c *storeContext) iDeleteWorkbenchItem(id, group string) error {
	c.remember()
	_, err := c.svc.DeleteWorkbenchItem(context.Background(), group, id)
	return err
}

func (c *storeContext) projectIsAbsent(id string) error {
	if _, ok := c.svc.Project(id); ok {
		return fmt.Errorf("project %s still present", id)
	}
	return nil
}

func InitializeEntityStoreScenario(ctx *godog.ScenarioContext) {
	c := &storeContext{}

	ctx.Step(`^the store is seeded with the default data set$`, c.theStoreIsSeededWithTheDefaultDataSet)
	ctx.Step(`^I add a workbench item titled "([^"]*)" with description "([^"]*)" and image "([^"]*)" to group "([^"]*)"$`, c.iAddAWorkbenchItem)
	ctx.Step(`^group "([^"]*)" has (\d+) more items? than before$`, c.groupHasMoreItems)
	ctx.Step(`^the project map has an entry for the new item named "([^"]*)"$`, c.theProjectMapHasAnEntryNamed)
	ctx.Step(`^project "([^"]*)" has an additional risk "([^"]*)"$`, c.projectHasAnAdditionalRisk)
	ctx.Step(`^I update risk "([^"]*)" of project "([^"]*)" to status "([^"]*)"$`, c.iUpdateRiskStatus)
	ctx.Step(`^risk "([^"]*)" of project "([^"]*)" has status "([^"]*)"$`, c.riskHasStatus)
	ctx.Step(`^every other risk of project "([^"]*)" is unchanged$`, c.everyOtherRiskIsUnchanged)
	ctx.Step(`^I delete quick link "([^"]*)" from project "([^"]*)"$`, c.iDeleteQuickLink)
	ctx.Step(`^the snapshot version is unchanged$`, c.theSnapshotVersionIsUnchanged)
	ctx.Step(`^the quick links of project "([^"]*)" are the same collection as before$`, c.quickLinksAreTheSameCollection)
	ctx.Step(`^I add two announcements titled "([^"]*)" to project "([^"]*)" in the same instant$`, c.iAddTwoAnnouncements)
	ctx.Step(`^project "([^"]*)" has (\d+) more announcements than before$`, c.projectHasMoreAnnouncements)
	ctx.Step(`^the new announcements have distinct ids$`, c.theNewAnnouncementsHaveDistinctIDs)
	ctx.Step(`^I delete workbench item "([^"]*)" from group "([^"]*)"$`, c.iDeleteWorkbenchItem)
	ctx.Step(`^project "([^"]*)" is absent$`, c.projectIsAbsent)
}

func TestEntityStoreFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeEntityStoreScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/entity_store.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
