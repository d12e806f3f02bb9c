// Package services holds the business logic of the head TA directory.
//
// Services defined in this package:
//   - AuthService: login, refresh token rotation and logout
//   - InvitationService: invitations and invitation-based signup
//   - InvitationTreeService: "who invited whom" trees with subtree stats
//   - ClaimService: merging placeholder profiles into registered users
//   - UserService: directory browsing and placeholder profiles
//   - CourseService, ProfessorService, OfferingService: the course catalog
//   - AssignmentService: historical head TA assignments
//   - DirectoryService: fuzzy directory search
//   - StatsService: admin dashboard counts
package services
