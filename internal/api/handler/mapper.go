package handler

import (
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toPostList(r *ports.ListPostsResult) listResponse[postListItem] {
	items := make([]postListItem, 0, len(r.Items))
	for _, p := range r.Items {
		items = append(items, postListItem{
			ID:              p.ID,
			Title:           p.Title,
			Description:     p.Description,
			Status:          p.Status,
			CreatedUserID:   p.CreatedUserID,
			CreatedUserName: p.CreatedUserName,
			CreatedAt:       p.CreatedAt.UTC(),
		})
	}
	return listResponse[postListItem]{Items: items, Meta: pageMeta{Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}}
}

func toPostDetail(d *ports.PostDetail) postDetailResponse {
	return postDetailResponse{
		ID:              d.Post.ID,
		Title:           d.Post.Title,
		Description:     d.Post.Description,
		Status:          d.Post.Status,
		UserID:          d.Post.OwnerID,
		CreatedUserName: d.CreatedUserName,
		UpdatedUserName: d.UpdatedUserName,
		CreatedAt:       d.Post.CreatedAt.UTC(),
		UpdatedAt:       d.Post.UpdatedAt.UTC(),
		DeletedAt:       d.Post.DeletedAt,
	}
}

func toUserList(r *ports.ListUsersResult) listResponse[userListItem] {
	items := make([]userListItem, 0, len(r.Items))
	for _, u := range r.Items {
		items = append(items, userListItem{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            u.Role,
			Phone:           u.Phone,
			Address:         u.Address,
			DOB:             formatDate(u.DOB),
			CreatedUserName: u.CreatedUserName,
			CreatedAt:       u.CreatedAt.UTC(),
			UpdatedAt:       u.UpdatedAt.UTC(),
		})
	}
	return listResponse[userListItem]{Items: items, Meta: pageMeta{Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}}
}

func toUserDetail(d *ports.UserDetail) *userDetailResponse {
	return &userDetailResponse{
		ID:              d.User.ID,
		Name:            d.User.Name,
		Email:           d.User.Email,
		Type:            d.User.Type,
		Role:            d.Role,
		Phone:           d.User.Phone,
		Address:         d.User.Address,
		DOB:             formatDate(d.User.DOB),
		ProfileURL:      d.ProfileURL,
		CreatedUserName: d.CreatedUserName,
		UpdatedUserName: d.UpdatedUserName,
		CreatedAt:       d.User.CreatedAt.UTC(),
		UpdatedAt:       d.User.UpdatedAt.UTC(),
	}
}

func userToDetail(u *domain.User) *userDetailResponse {
	return toUserDetail(&ports.UserDetail{User: *u, Role: domain.RoleLabel(u.Type), ProfileURL: u.ProfileURL()})
}

// --- Request → form values ---

func postFormValues(f forms.PostForm) postValues {
	return postValues{Title: f.Title, Description: f.Description, Status: f.Status}
}

func userCreateValues(f forms.UserCreateForm) userValues {
	return userValues{Name: f.Name, Email: f.Email, Type: f.Type, Phone: f.Phone, DOB: f.DOB, Address: f.Address}
}

func userEditValues(f forms.UserEditForm) userValues {
	return userValues{Name: f.Name, Email: f.Email, Type: f.Type, Phone: f.Phone, DOB: f.DOB, Address: f.Address}
}

func userDetailValues(d *ports.UserDetail) userValues {
	return userValues{
		Name:       d.User.Name,
		Email:      d.User.Email,
		Type:       d.User.Type,
		Phone:      d.User.Phone,
		DOB:        formatDate(d.User.DOB),
		Address:    d.User.Address,
		ProfileURL: d.ProfileURL,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(forms.DateLayout)
}
